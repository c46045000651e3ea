// Package rank reduces point awards into a deterministic ranking snapshot.
//
// Aggregation is a pure function of its award set: the same awards produce
// bitwise-identical snapshots no matter what order files were discovered or
// parsed in. Awards are grouped per player and summed in a canonical order
// before any floating point addition happens.
package rank

import (
	"sort"

	"github.com/clbarnes/ddrank/internal/domain/model"
)

// DefaultBestK is the number of results counted per player when best-K
// aggregation is enabled.
const DefaultBestK = 10

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithBestK keeps only a player's k highest awards. k <= 0 sums every award.
func WithBestK(k int) Option {
	return func(a *Aggregator) {
		a.bestK = k
	}
}

// Aggregator reduces awards to ranking entries.
type Aggregator struct {
	bestK int
}

// NewAggregator creates an aggregator with configuration options.
// By default every award counts (no best-K cutoff).
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate computes one score per player and returns entries sorted by
// descending score, ties broken by ascending player ID. Equal scores share a
// rank and the following rank skips past the tie. Players with no awards do
// not appear at all.
func (a *Aggregator) Aggregate(awards []model.PointAward) []model.RankingEntry {
	byPlayer := make(map[model.PlayerID][]model.PointAward)
	for _, award := range awards {
		byPlayer[award.Player] = append(byPlayer[award.Player], award)
	}

	entries := make([]model.RankingEntry, 0, len(byPlayer))
	for player, playerAwards := range byPlayer {
		entries = append(entries, model.RankingEntry{
			Player: player,
			Score:  a.score(playerAwards),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Player < entries[j].Player
	})

	// Competition ranking: a tie group occupies as many ranks as it has
	// members, so the next distinct score lands past the whole group.
	for i := range entries {
		if i > 0 && entries[i].Score == entries[i-1].Score {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return entries
}

// score sums one player's awards in canonical order: highest points first,
// source path as the tie break. Best-K keeps only the leading k awards.
func (a *Aggregator) score(awards []model.PointAward) float64 {
	sort.Slice(awards, func(i, j int) bool {
		if awards[i].Points != awards[j].Points {
			return awards[i].Points > awards[j].Points
		}
		return awards[i].Source < awards[j].Source
	})

	n := len(awards)
	if a.bestK > 0 && a.bestK < n {
		n = a.bestK
	}

	var total float64
	for _, award := range awards[:n] {
		total += award.Points
	}
	return total
}
