package scoring_test

import (
	"testing"
	"time"

	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func team(t *testing.T, a, b model.PlayerID) model.Team {
	t.Helper()
	tm, err := model.NewTeam(a, b)
	if err != nil {
		t.Fatalf("team %d/%d: %v", a, b, err)
	}
	return tm
}

func TestDecayCurve(t *testing.T) {
	Convey("Given the default decay curve", t, func() {
		curve := scoring.NewDecayCurve()

		Convey("Then points never increase with position", func() {
			prev := curve.Points(1, 1, 100)
			for pos := uint64(2); pos <= 50; pos++ {
				pts := curve.Points(pos, 1, 100)
				So(pts, ShouldBeLessThanOrEqualTo, prev)
				So(pts, ShouldBeGreaterThanOrEqualTo, 0)
				prev = pts
			}
		})

		Convey("Then points never decrease with level weight", func() {
			So(curve.Points(3, 1, 125), ShouldBeGreaterThanOrEqualTo, curve.Points(3, 1, 50))
			So(curve.Points(3, 1, 250), ShouldBeGreaterThanOrEqualTo, curve.Points(3, 1, 200))
		})

		Convey("Then a winner's payout is the weight decayed once and split", func() {
			// 50 / 1.1 / 2
			So(curve.Points(1, 1, 50), ShouldAlmostEqual, 22.727272727272727, 1e-12)
		})
	})

	Convey("Given a custom finish decay", t, func() {
		curve := scoring.NewDecayCurve(scoring.WithFinishDecay(2))
		So(curve.Points(1, 1, 100), ShouldAlmostEqual, 25.0)
		So(curve.Points(2, 1, 100), ShouldAlmostEqual, 12.5)

		Convey("Then non-shrinking factors are ignored", func() {
			flat := scoring.NewDecayCurve(scoring.WithFinishDecay(0.5))
			So(flat.Points(2, 1, 100), ShouldAlmostEqual, scoring.NewDecayCurve().Points(2, 1, 100))
		})
	})
}

func TestAssign(t *testing.T) {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	Convey("Given the documented example tournament", t, func() {
		tour := model.Tournament{
			Source: "small/2024-01-01.tsv",
			Date:   date,
			Level:  model.LevelSmall,
			Entries: []model.Entry{
				{Position: 1, Team: team(t, 235476, 529052)},
				{Position: 2, Team: team(t, 23342, 4235211978)},
				{Position: 2, Team: team(t, 234871, 1387235)},
				{Position: 4, Team: team(t, 5690845, 5638906)},
			},
		}
		curve := scoring.NewDecayCurve()
		awards := scoring.Assign(tour, 50, curve)

		byPlayer := make(map[model.PlayerID]float64, len(awards))
		for _, a := range awards {
			byPlayer[a.Player] = a.Points
		}

		Convey("Then every player in every entry gets an award", func() {
			So(awards, ShouldHaveLength, 8)
			for _, a := range awards {
				So(a.Source, ShouldEqual, "small/2024-01-01.tsv")
				So(a.Points, ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then teammates receive identical points", func() {
			So(byPlayer[235476], ShouldAlmostEqual, byPlayer[529052])
			So(byPlayer[5690845], ShouldAlmostEqual, byPlayer[5638906])
		})

		Convey("Then the second-place tie pays all four players identically", func() {
			So(byPlayer[23342], ShouldAlmostEqual, byPlayer[4235211978])
			So(byPlayer[23342], ShouldAlmostEqual, byPlayer[234871])
			So(byPlayer[23342], ShouldAlmostEqual, byPlayer[1387235])
		})

		Convey("Then a better position never pays less", func() {
			So(byPlayer[235476], ShouldBeGreaterThanOrEqualTo, byPlayer[23342])
			So(byPlayer[23342], ShouldBeGreaterThanOrEqualTo, byPlayer[5690845])
		})
	})

	Convey("Given an empty tournament", t, func() {
		awards := scoring.Assign(model.Tournament{Source: "empty.tsv"}, 200, scoring.NewDecayCurve())
		So(awards, ShouldBeEmpty)
	})

	Convey("Given identical tournaments at different levels", t, func() {
		entries := []model.Entry{{Position: 1, Team: team(t, 1, 2)}}
		small := scoring.Assign(model.Tournament{Source: "s", Level: model.LevelSmall, Entries: entries},
			50, scoring.NewDecayCurve())
		championship := scoring.Assign(model.Tournament{Source: "c", Level: model.LevelChampionship, Entries: entries},
			250, scoring.NewDecayCurve())

		Convey("Then the higher weight pays at least as much", func() {
			So(championship[0].Points, ShouldBeGreaterThanOrEqualTo, small[0].Points)
		})
	})
}

func TestDefaultLevelWeights(t *testing.T) {
	Convey("Given the default level weights", t, func() {
		weights := scoring.DefaultLevelWeights()

		Convey("Then every level has a weight", func() {
			for _, lvl := range model.Levels() {
				So(weights[lvl], ShouldBeGreaterThan, 0)
			}
		})

		Convey("Then prestige ordering holds", func() {
			So(weights[model.LevelSmall], ShouldBeLessThan, weights[model.LevelMedium])
			So(weights[model.LevelMedium], ShouldBeLessThan, weights[model.LevelMajor])
			So(weights[model.LevelMajor], ShouldBeLessThan, weights[model.LevelChampionship])
		})
	})
}
