package scoring

import (
	"github.com/clbarnes/ddrank/internal/domain/model"
)

// Assign maps a validated tournament to one PointAward per player per entry.
// Both members of a team receive identical points, and so does every team in
// a tie group. Award order is deterministic: entry order, then the team's
// normalized player order. An empty tournament yields no awards.
func Assign(t model.Tournament, levelWeight float64, curve Curve) []model.PointAward {
	if len(t.Entries) == 0 {
		return nil
	}

	awards := make([]model.PointAward, 0, len(t.Entries)*playersPerTeam)
	for _, group := range t.TieGroups() {
		size := uint64(len(group))
		points := curve.Points(group[0].Position, size, levelWeight)
		for _, entry := range group {
			for _, player := range entry.Team.Players() {
				awards = append(awards, model.PointAward{
					Player: player,
					Source: t.Source,
					Points: points,
				})
			}
		}
	}
	return awards
}
