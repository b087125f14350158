// internal/store/memory.go
//
// In-memory implementation of game.ScoreStore.
// Used in tests and when no database path is configured.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - The best score never decreases, even if a lower value is saved.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/robalobadob/memorygrid/internal/game"
)

// memory keeps the best score and a slice of finished sessions.
type memory struct {
	mu      sync.RWMutex
	best    int
	results []game.Result
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() Store {
	return &memory{}
}

func (m *memory) LoadBest(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.best, nil
}

func (m *memory) SaveBest(ctx context.Context, best int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if best > m.best {
		m.best = best
	}
	return nil
}

func (m *memory) SaveResult(ctx context.Context, r game.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

// TopResults returns the highest-scoring sessions, best first.
func (m *memory) TopResults(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	m.mu.RLock()
	out := append([]game.Result(nil), m.results...)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].FinishedAt.Before(out[j].FinishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Close() error { return nil }
