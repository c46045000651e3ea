package parse_test

import (
	"errors"
	"testing"

	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/parse"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseLine(t *testing.T) {
	Convey("Given lines that carry no record", t, func() {
		Convey("Then empty and comment lines are skipped", func() {
			So(parse.ParseLine("").Kind, ShouldEqual, parse.Skip)
			So(parse.ParseLine("   \t ").Kind, ShouldEqual, parse.Skip)
			So(parse.ParseLine("# comment").Kind, ShouldEqual, parse.Skip)
			So(parse.ParseLine("   # indented comment").Kind, ShouldEqual, parse.Skip)
		})

		Convey("Then lines with fewer than three fields are skipped", func() {
			So(parse.ParseLine("1\t2").Kind, ShouldEqual, parse.Skip)
			So(parse.ParseLine("42").Kind, ShouldEqual, parse.Skip)
		})
	})

	Convey("Given well-formed record lines", t, func() {
		Convey("Then tab-separated fields parse", func() {
			out := parse.ParseLine("1\t235476\t529052")
			So(out.Kind, ShouldEqual, parse.EntryLine)
			So(out.Entry.Position, ShouldEqual, 1)
			So(out.Entry.Team.Players(), ShouldResemble, [2]model.PlayerID{235476, 529052})
		})

		Convey("Then arbitrary whitespace separates fields too", func() {
			out := parse.ParseLine("  2   10 20 ")
			So(out.Kind, ShouldEqual, parse.EntryLine)
			So(out.Entry.Position, ShouldEqual, 2)
		})

		Convey("Then trailing fields are ignored", func() {
			out := parse.ParseLine("3\t7\t8\tclub-name\textra")
			So(out.Kind, ShouldEqual, parse.EntryLine)
			So(out.Entry.Position, ShouldEqual, 3)
		})
	})

	Convey("Given lines with enough fields but bad values", t, func() {
		Convey("Then non-integer fields are malformed, not skipped", func() {
			out := parse.ParseLine("1\tX\t2")
			So(out.Kind, ShouldEqual, parse.Malformed)
			So(errors.Is(out.Reason, parse.ErrMalformedLine), ShouldBeTrue)

			So(parse.ParseLine("first\t1\t2").Kind, ShouldEqual, parse.Malformed)
			So(parse.ParseLine("1\t2\t3.5").Kind, ShouldEqual, parse.Malformed)
		})

		Convey("Then zero and negative values are malformed", func() {
			So(parse.ParseLine("0\t1\t2").Kind, ShouldEqual, parse.Malformed)
			So(parse.ParseLine("1\t0\t2").Kind, ShouldEqual, parse.Malformed)
			So(parse.ParseLine("-1\t1\t2").Kind, ShouldEqual, parse.Malformed)
		})

		Convey("Then a team of one player twice is malformed", func() {
			out := parse.ParseLine("1\t9\t9")
			So(out.Kind, ShouldEqual, parse.Malformed)
			So(errors.Is(out.Reason, model.ErrRepeatedPlayer), ShouldBeTrue)
		})
	})
}
