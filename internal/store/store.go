// Package store persists best scores and finished sessions for the
// memory-grid engine. Implementations may be backed by memory or SQLite.
package store

import (
	"context"

	"github.com/robalobadob/memorygrid/internal/game"
)

const defaultTopLimit = 10

// Store is a game.ScoreStore that can also list past sessions.
type Store interface {
	game.ScoreStore

	// TopResults returns up to limit sessions ordered by score descending,
	// then by finish time. A non-positive limit means 10.
	TopResults(ctx context.Context, limit int) ([]game.Result, error)

	Close() error
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*memory)(nil)
)
