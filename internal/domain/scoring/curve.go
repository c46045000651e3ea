// Package scoring converts validated tournaments into per-player point awards.
//
// The numeric curve is federation policy, not pipeline logic, so it is an
// injected strategy. The default geometric decay reproduces the historically
// published tables but every constant is configurable.
package scoring

import (
	"math"

	"github.com/clbarnes/ddrank/internal/domain/model"
)

// Default curve parameters.
const (
	// DefaultFinishDecay is the per-position geometric decay factor.
	DefaultFinishDecay = 1.1
	// playersPerTeam splits a team's points between its two players.
	playersPerTeam = 2
)

// DefaultLevelWeights returns the base points per tournament level used when
// configuration does not override a level.
func DefaultLevelWeights() map[model.Level]float64 {
	return map[model.Level]float64{
		model.LevelSmall:        50,
		model.LevelMedium:       125,
		model.LevelMajor:        200,
		model.LevelChampionship: 250,
	}
}

// Curve computes the points one player receives for finishing a tournament
// at a position. Implementations must be monotonically non-increasing in
// position, non-decreasing in levelWeight, and never negative. Teams tied at
// a position share the position value, so any Curve pays them identically.
type Curve interface {
	Points(position, tieGroupSize uint64, levelWeight float64) float64
}

// Option applies a configuration option to the DecayCurve.
type Option func(*DecayCurve)

// WithFinishDecay sets the geometric decay factor. Values at or below 1 are
// ignored; the curve must shrink as positions worsen.
func WithFinishDecay(decay float64) Option {
	return func(c *DecayCurve) {
		if decay > 1 {
			c.finishDecay = decay
		}
	}
}

// DecayCurve is the default scoring curve: the level weight shrinks
// geometrically with finishing position and is split between the two
// players of a team.
type DecayCurve struct {
	finishDecay float64
}

// NewDecayCurve creates a decay curve with configuration options.
func NewDecayCurve(opts ...Option) *DecayCurve {
	c := &DecayCurve{finishDecay: DefaultFinishDecay}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Points implements Curve. The tie group size does not alter the default
// curve: tied teams already share a position and therefore a payout.
func (c *DecayCurve) Points(position, _ uint64, levelWeight float64) float64 {
	return levelWeight / math.Pow(c.finishDecay, float64(position)) / playersPerTeam
}
