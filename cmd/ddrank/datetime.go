package main

import (
	"fmt"
	"time"
)

// boundLayouts are the accepted prefixes of an ISO-8601 datetime, most
// specific first.
var boundLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02",
	"2006-01",
	"2006",
}

// parseBound parses a possibly partial ISO-8601 datetime. Omitted trailing
// components round down for a lower bound and up for an upper bound, so
// "2024" means the start of 2024 as a -from value and the end of 2024 as a
// -to value.
func parseBound(s string, up bool) (time.Time, error) {
	for _, layout := range boundLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if !up {
			return t, nil
		}
		switch layout {
		case "2006":
			return time.Date(t.Year()+1, time.January, 1, 0, 0, 0, 0, t.Location()).Add(-time.Second), nil
		case "2006-01":
			return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()).Add(-time.Second), nil
		case "2006-01-02":
			return t.Add(24*time.Hour - time.Second), nil
		case "2006-01-02T15":
			return t.Add(time.Hour - time.Second), nil
		case "2006-01-02T15:04":
			return t.Add(time.Minute - time.Second), nil
		default:
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a datetime", s)
}
