// Package repository holds the published ranking snapshot and serves lookups.
package repository

import (
	"context"

	"github.com/clbarnes/ddrank/internal/domain/model"
)

// Store provides access to the most recently published ranking snapshot.
// A run publishes exactly one snapshot; reads before that return ErrNoSnapshot.
type Store interface {
	// Publish replaces the snapshot with a freshly computed ranking.
	Publish(ctx context.Context, entries []model.RankingEntry)

	// Rank returns the snapshot row for one player.
	// Returns ErrNotFound if the player is not ranked.
	Rank(ctx context.Context, player model.PlayerID) (model.RankingEntry, error)

	// TopN returns the first n rows of the snapshot. n <= 0 returns
	// ErrInvalidLimit; n beyond the snapshot returns everything.
	TopN(ctx context.Context, n int) ([]model.RankingEntry, error)

	// All returns the whole snapshot in rank order.
	All(ctx context.Context) ([]model.RankingEntry, error)

	// Count returns the number of ranked players.
	Count(ctx context.Context) int
}
