package rank_test

import (
	"math/rand"
	"testing"

	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/rank"
	. "github.com/smartystreets/goconvey/convey"
)

func award(p model.PlayerID, source string, points float64) model.PointAward {
	return model.PointAward{Player: p, Source: source, Points: points}
}

func TestAggregate(t *testing.T) {
	Convey("Given awards for three players", t, func() {
		awards := []model.PointAward{
			award(1, "a.tsv", 10),
			award(1, "b.tsv", 5),
			award(2, "a.tsv", 20),
			award(3, "b.tsv", 2.5),
		}
		agg := rank.NewAggregator()
		entries := agg.Aggregate(awards)

		Convey("Then entries sort by descending aggregate score", func() {
			So(entries, ShouldHaveLength, 3)
			So(entries[0].Player, ShouldEqual, 2)
			So(entries[0].Score, ShouldEqual, 20.0)
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[1].Player, ShouldEqual, 1)
			So(entries[1].Score, ShouldEqual, 15.0)
			So(entries[1].Rank, ShouldEqual, 2)
			So(entries[2].Player, ShouldEqual, 3)
			So(entries[2].Rank, ShouldEqual, 3)
		})
	})

	Convey("Given players with exactly equal totals", t, func() {
		awards := []model.PointAward{
			award(9, "a.tsv", 10),
			award(4, "b.tsv", 10),
			award(7, "c.tsv", 3),
		}
		entries := rank.NewAggregator().Aggregate(awards)

		Convey("Then equal scores share a rank, ordered by ascending player ID", func() {
			So(entries[0].Player, ShouldEqual, 4)
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[1].Player, ShouldEqual, 9)
			So(entries[1].Rank, ShouldEqual, 1)
		})

		Convey("Then the next distinct score skips past the tie group", func() {
			So(entries[2].Player, ShouldEqual, 7)
			So(entries[2].Rank, ShouldEqual, 3)
		})
	})

	Convey("Given no awards", t, func() {
		So(rank.NewAggregator().Aggregate(nil), ShouldBeEmpty)
	})

	Convey("Given a player absent from the award set", t, func() {
		entries := rank.NewAggregator().Aggregate([]model.PointAward{award(5, "a.tsv", 1)})

		Convey("Then no zero-score entry is invented for anyone else", func() {
			So(entries, ShouldHaveLength, 1)
			So(entries[0].Player, ShouldEqual, 5)
		})
	})
}

func TestAggregateBestK(t *testing.T) {
	Convey("Given a player with more results than the record length", t, func() {
		var awards []model.PointAward
		for i := 0; i < 15; i++ {
			awards = append(awards, award(1, string(rune('a'+i))+".tsv", float64(i+1)))
		}

		Convey("Then best-K sums only the K highest awards", func() {
			entries := rank.NewAggregator(rank.WithBestK(3)).Aggregate(awards)
			So(entries[0].Score, ShouldEqual, 15.0+14.0+13.0)
		})

		Convey("Then the default counts everything", func() {
			entries := rank.NewAggregator().Aggregate(awards)
			So(entries[0].Score, ShouldEqual, 120.0)
		})

		Convey("Then a cutoff above the award count changes nothing", func() {
			entries := rank.NewAggregator(rank.WithBestK(100)).Aggregate(awards)
			So(entries[0].Score, ShouldEqual, 120.0)
		})
	})
}

func TestAggregateOrderIndependence(t *testing.T) {
	Convey("Given a large shuffled award set", t, func() {
		rng := rand.New(rand.NewSource(99))
		var awards []model.PointAward
		for p := model.PlayerID(1); p <= 40; p++ {
			for s := 0; s < 8; s++ {
				awards = append(awards, award(p, string(rune('a'+s))+".tsv", rng.Float64()*100))
			}
		}

		baseline := rank.NewAggregator(rank.WithBestK(rank.DefaultBestK)).Aggregate(awards)

		Convey("Then every permutation yields a bitwise-identical snapshot", func() {
			for trial := 0; trial < 10; trial++ {
				shuffled := make([]model.PointAward, len(awards))
				copy(shuffled, awards)
				rng.Shuffle(len(shuffled), func(i, j int) {
					shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
				})

				got := rank.NewAggregator(rank.WithBestK(rank.DefaultBestK)).Aggregate(shuffled)
				So(got, ShouldResemble, baseline)
			}
		})
	})
}
