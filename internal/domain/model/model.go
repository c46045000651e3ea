// Package model contains domain values passed between pipeline stages.
package model

import (
	"fmt"
	"time"
)

// PlayerID identifies a player. IDs are opaque positive integers assigned by
// the federation; no structure is assumed beyond uniqueness.
type PlayerID uint64

// Team is an unordered pair of two distinct players. The pair is normalized
// on construction so equality is order-independent and Team is usable as a
// map key.
type Team struct {
	lo PlayerID
	hi PlayerID
}

// NewTeam builds a Team from two player IDs, normalizing their order.
// Returns ErrRepeatedPlayer if both IDs are the same player.
func NewTeam(a, b PlayerID) (Team, error) {
	switch {
	case a < b:
		return Team{lo: a, hi: b}, nil
	case a > b:
		return Team{lo: b, hi: a}, nil
	default:
		return Team{}, fmt.Errorf("%w: %d", ErrRepeatedPlayer, a)
	}
}

// Players returns both members of the team.
func (t Team) Players() [2]PlayerID {
	return [2]PlayerID{t.lo, t.hi}
}

// Level classifies a tournament's competitive tier. Levels come from the
// directory taxonomy of the result corpus, never from file contents.
type Level int

// Recognized tournament levels.
const (
	LevelSmall Level = iota
	LevelMedium
	LevelMajor
	LevelChampionship
)

// Levels returns all recognized levels in ascending prestige order.
func Levels() []Level {
	return []Level{LevelSmall, LevelMedium, LevelMajor, LevelChampionship}
}

// String returns the level's directory name.
func (l Level) String() string {
	switch l {
	case LevelSmall:
		return "small"
	case LevelMedium:
		return "medium"
	case LevelMajor:
		return "major"
	case LevelChampionship:
		return "championship"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a directory name to its Level.
// Returns ErrUnknownLevel for anything unrecognized.
func ParseLevel(name string) (Level, error) {
	switch name {
	case "small":
		return LevelSmall, nil
	case "medium":
		return LevelMedium, nil
	case "major":
		return LevelMajor, nil
	case "championship":
		return LevelChampionship, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
}

// Entry is one finishing record within a tournament: a team and the position
// it finished at. Multiple entries may share a position (a tie group).
type Entry struct {
	Position uint64
	Team     Team
}

// Tournament is a validated result file: a date, a level, and entries sorted
// by ascending position with consistent tie groups. Built once by the result
// file builder and never mutated afterwards.
type Tournament struct {
	// Source is the path the tournament was read from. It doubles as the
	// tournament's identity when ordering awards deterministically.
	Source  string
	Date    time.Time
	Level   Level
	Entries []Entry
}

// Players returns every player appearing in the tournament, in entry order.
// A player fielding multiple entries appears once per entry.
func (t Tournament) Players() []PlayerID {
	out := make([]PlayerID, 0, len(t.Entries)*2)
	for _, e := range t.Entries {
		p := e.Team.Players()
		out = append(out, p[0], p[1])
	}
	return out
}

// TieGroups returns maximal runs of entries sharing a finishing position.
// Entries must already be sorted by ascending position, which holds for any
// Tournament produced by the result file builder.
func (t Tournament) TieGroups() [][]Entry {
	var groups [][]Entry
	start := 0
	for i := 1; i <= len(t.Entries); i++ {
		if i == len(t.Entries) || t.Entries[i].Position != t.Entries[start].Position {
			groups = append(groups, t.Entries[start:i])
			start = i
		}
	}
	return groups
}

// PointAward is the points one player earned from one tournament. Awards are
// derived values; they are never persisted apart from their source.
type PointAward struct {
	Player PlayerID
	// Source names the tournament the award derives from.
	Source string
	Points float64
}

// RankingEntry is one row of the published ranking snapshot.
type RankingEntry struct {
	Player PlayerID
	Score  float64
	Rank   int
}
