package parse_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/parse"
	. "github.com/smartystreets/goconvey/convey"
)

var testDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func buildPositions(t *testing.T, positions []uint64) (model.Tournament, error) {
	t.Helper()
	b := parse.NewBuilder("test.tsv", model.LevelSmall, testDate)
	player := 1
	for _, pos := range positions {
		b.Add(fmt.Sprintf("%d\t%d\t%d", pos, player, player+1))
		player += 2
	}
	return b.Build()
}

func TestBuilderAcceptsConsistentTies(t *testing.T) {
	Convey("Given valid position sequences", t, func() {
		cases := [][]uint64{
			{1, 2, 2, 4},
			{1, 2, 2, 4, 5},
			{1, 1, 3},
			{1},
			{},
		}
		for _, positions := range cases {
			tour, err := buildPositions(t, positions)
			So(err, ShouldBeNil)
			So(tour.Entries, ShouldHaveLength, len(positions))
		}
	})

	Convey("Given the tie groups of an accepted file", t, func() {
		tour, err := buildPositions(t, []uint64{1, 2, 2, 4})
		So(err, ShouldBeNil)

		Convey("Then exactly one group exists per distinct position", func() {
			groups := tour.TieGroups()
			So(groups, ShouldHaveLength, 3)
			So(groups[0][0].Position, ShouldEqual, 1)
			So(groups[1], ShouldHaveLength, 2)
			So(groups[2][0].Position, ShouldEqual, 4)
		})
	})
}

func TestBuilderRejectsInconsistentTies(t *testing.T) {
	Convey("Given sequences violating tie consistency", t, func() {
		cases := []struct {
			positions []uint64
			offending uint64
		}{
			{[]uint64{1, 2, 2, 3}, 3},
			{[]uint64{2, 3}, 2},
			{[]uint64{1, 3}, 3},
			{[]uint64{1, 1, 2}, 2},
		}
		for _, c := range cases {
			_, err := buildPositions(t, c.positions)
			So(err, ShouldNotBeNil)

			var tieErr *parse.TieConsistencyError
			So(err, ShouldHaveSameTypeAs, tieErr)
			tieErr = err.(*parse.TieConsistencyError)

			Convey(tieErr.Error()+" names the offending position", func() {
				So(tieErr.Position, ShouldEqual, c.offending)
			})
		}
	})
}

func TestBuilderBehavior(t *testing.T) {
	Convey("Given a file with positions out of order", t, func() {
		b := parse.NewBuilder("unsorted.tsv", model.LevelMedium, testDate)
		b.Add("3\t50\t60")
		b.Add("1\t10\t20")
		b.Add("2\t30\t40")
		tour, err := b.Build()

		Convey("Then entries come back sorted by position", func() {
			So(err, ShouldBeNil)
			So(tour.Entries[0].Position, ShouldEqual, 1)
			So(tour.Entries[1].Position, ShouldEqual, 2)
			So(tour.Entries[2].Position, ShouldEqual, 3)
		})
	})

	Convey("Given a file with duplicate teams", t, func() {
		b := parse.NewBuilder("dup.tsv", model.LevelSmall, testDate)
		b.Add("1\t10\t20")
		b.Add("1\t10\t20")
		b.Add("3\t30\t40")
		tour, err := b.Build()

		Convey("Then both entries are kept as distinct", func() {
			So(err, ShouldBeNil)
			So(tour.Entries, ShouldHaveLength, 3)
			So(tour.Entries[0].Team, ShouldResemble, tour.Entries[1].Team)
		})
	})

	Convey("Given a file whose lines are all skipped", t, func() {
		b := parse.NewBuilder("empty.tsv", model.LevelMajor, testDate)
		b.Add("# header")
		b.Add("")
		tour, err := b.Build()

		Convey("Then an empty tournament is valid", func() {
			So(err, ShouldBeNil)
			So(tour.Entries, ShouldBeEmpty)
			So(tour.Level, ShouldEqual, model.LevelMajor)
		})
	})

	Convey("Given malformed lines mixed into a valid file", t, func() {
		b := parse.NewBuilder("mixed.tsv", model.LevelSmall, testDate)
		b.Add("1\t10\t20")
		b.Add("2\toops\t40")
		b.Add("2\t30\t40")
		b.Add("2\t50\t60")
		b.Add("4\t70\t80")
		tour, err := b.Build()

		Convey("Then the file still builds and the defects are reported", func() {
			So(err, ShouldBeNil)
			So(tour.Entries, ShouldHaveLength, 4)
			So(b.Defects(), ShouldHaveLength, 1)
			So(b.Defects()[0].LineNo, ShouldEqual, 2)
		})
	})
}

func TestRead(t *testing.T) {
	Convey("Given the documented example file", t, func() {
		content := "1\t235476\t529052\n" +
			"2\t23342\t4235211978\n" +
			"2\t234871\t1387235\n" +
			"4\t5690845\t5638906\n"

		tour, defects, err := parse.Read(strings.NewReader(content), "small/2024-01-01.tsv", model.LevelSmall, testDate)

		Convey("Then it parses into tie groups {1}, {2,2}, {4}", func() {
			So(err, ShouldBeNil)
			So(defects, ShouldBeEmpty)

			groups := tour.TieGroups()
			So(groups, ShouldHaveLength, 3)
			So(groups[0], ShouldHaveLength, 1)
			So(groups[1], ShouldHaveLength, 2)
			So(groups[2], ShouldHaveLength, 1)
			So(groups[2][0].Position, ShouldEqual, 4)
		})
	})

	Convey("Given a reader over a rejected file", t, func() {
		_, _, err := parse.Read(strings.NewReader("1\t1\t2\n2\t3\t4\n2\t5\t6\n3\t7\t8\n"),
			"bad.tsv", model.LevelSmall, testDate)

		var tieErr *parse.TieConsistencyError
		So(err, ShouldHaveSameTypeAs, tieErr)
	})
}
