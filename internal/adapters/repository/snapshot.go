package repository

import (
	"context"
	"sync"

	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/pkg/metrics"
)

// SnapshotStore implements Store with an immutable in-memory snapshot.
// Publish swaps the whole snapshot under a write lock; readers share it.
type SnapshotStore struct {
	mu        sync.RWMutex
	entries   []model.RankingEntry
	byPlayer  map[model.PlayerID]int
	published bool
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{byPlayer: make(map[model.PlayerID]int)}
}

// Publish replaces the snapshot. The entries are copied, so the caller's
// slice stays untouched afterwards.
func (s *SnapshotStore) Publish(_ context.Context, entries []model.RankingEntry) {
	copied := make([]model.RankingEntry, len(entries))
	copy(copied, entries)

	index := make(map[model.PlayerID]int, len(copied))
	for i, e := range copied {
		index[e.Player] = i
	}

	s.mu.Lock()
	s.entries = copied
	s.byPlayer = index
	s.published = true
	s.mu.Unlock()

	metrics.UpdatePlayersRanked(len(copied))
}

// Rank returns the snapshot row for one player.
func (s *SnapshotStore) Rank(_ context.Context, player model.PlayerID) (model.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.published {
		return model.RankingEntry{}, ErrNoSnapshot
	}
	i, ok := s.byPlayer[player]
	if !ok {
		return model.RankingEntry{}, ErrNotFound
	}
	return s.entries[i], nil
}

// TopN returns the first n rows of the snapshot.
func (s *SnapshotStore) TopN(_ context.Context, n int) ([]model.RankingEntry, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.published {
		return nil, ErrNoSnapshot
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]model.RankingEntry, n)
	copy(out, s.entries[:n])
	return out, nil
}

// All returns the whole snapshot in rank order.
func (s *SnapshotStore) All(_ context.Context) ([]model.RankingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.published {
		return nil, ErrNoSnapshot
	}
	out := make([]model.RankingEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Count returns the number of ranked players.
func (s *SnapshotStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
