// Package dedupe tracks result files already handed to the pipeline.
//
// Discovery follows symlinks, so a link cycle or a file linked from two
// places could otherwise ingest the same tournament twice. Paths are
// recorded after resolution, once per run; the set is bounded by the corpus
// size and never evicts.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Tracker records seen file paths to ensure at-most-once ingestion.
type Tracker interface {
	// SeenAndRecord atomically checks if path was seen and records it if not.
	// Returns true if path was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, path string) bool

	Size() int64
}

// inMemoryTracker implements Tracker with a mutex-guarded set.
type inMemoryTracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewTracker creates an empty in-memory tracker.
func NewTracker() Tracker {
	return &inMemoryTracker{seen: make(map[string]struct{})}
}

// SeenAndRecord atomically checks if path was seen and records it if not.
func (t *inMemoryTracker) SeenAndRecord(_ context.Context, path string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[path]; exists {
		return true
	}
	t.seen[path] = struct{}{}
	t.size.Add(1)
	return false
}

// Size returns the number of recorded paths.
func (t *inMemoryTracker) Size() int64 {
	return t.size.Load()
}
