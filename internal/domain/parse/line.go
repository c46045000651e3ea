// Package parse turns raw result lines into validated tournaments.
//
// It owns two stages of the pipeline: classifying single lines and
// assembling a file's worth of classifications into a model.Tournament.
// No file I/O happens here; callers hand in lines or an io.Reader.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/clbarnes/ddrank/internal/domain/model"
)

// minFields is the number of leading fields a result line must carry:
// finishing position and both player IDs. Anything after them is ignored.
const minFields = 3

// OutcomeKind classifies a single raw line.
type OutcomeKind int

const (
	// Skip marks blank lines, comments, and lines with too few fields.
	Skip OutcomeKind = iota
	// EntryLine marks a line parsed into a finishing record.
	EntryLine
	// Malformed marks a line with enough fields that failed to parse.
	// Malformed lines are reported, never silently dropped.
	Malformed
)

// Outcome is the classification of one raw line.
type Outcome struct {
	Kind  OutcomeKind
	Entry model.Entry
	// Reason explains a Malformed classification.
	Reason error
}

// ParseLine classifies one raw text line.
//
// A line is skipped when it is empty, starts with '#', or has fewer than
// three whitespace-separated fields. Otherwise the first three fields must
// parse as positive integers: position, then the two player IDs. A team of
// one player repeated counts as malformed; the rest of the file is
// unaffected either way.
func ParseLine(line string) Outcome {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Outcome{Kind: Skip}
	}

	fields := strings.Fields(trimmed)
	if len(fields) < minFields {
		return Outcome{Kind: Skip}
	}

	pos, err := parsePositive(fields[0])
	if err != nil {
		return malformed(fmt.Errorf("position %q: %w", fields[0], err))
	}
	a, err := parsePositive(fields[1])
	if err != nil {
		return malformed(fmt.Errorf("player %q: %w", fields[1], err))
	}
	b, err := parsePositive(fields[2])
	if err != nil {
		return malformed(fmt.Errorf("player %q: %w", fields[2], err))
	}

	team, err := model.NewTeam(model.PlayerID(a), model.PlayerID(b))
	if err != nil {
		return malformed(err)
	}

	return Outcome{
		Kind:  EntryLine,
		Entry: model.Entry{Position: pos, Team: team},
	}
}

func malformed(reason error) Outcome {
	return Outcome{Kind: Malformed, Reason: fmt.Errorf("%w: %w", ErrMalformedLine, reason)}
}

func parsePositive(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errNotAnInteger
	}
	if v == 0 {
		return 0, errNotPositive
	}
	return v, nil
}
