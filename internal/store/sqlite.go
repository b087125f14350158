package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/robalobadob/memorygrid/internal/game"
)

// timeLayout has fixed-width fractions so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLite is a Store backed by a migrated SQLite database.
type SQLite struct{ db *sql.DB }

// NewSQLite wraps an open, migrated database.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

// OpenSQLite opens the database at path and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return NewSQLite(db), nil
}

func (s *SQLite) LoadBest(ctx context.Context) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx, `SELECT score FROM best_score WHERE id=1`).Scan(&best)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return best, err
}

// SaveBest stores best unless a higher value is already recorded.
func (s *SQLite) SaveBest(ctx context.Context, best int) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO best_score (id, score, updated_at) VALUES (1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            score      = MAX(score, excluded.score),
            updated_at = excluded.updated_at`,
		best, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// SaveResult records a finished session. Saving the same session twice is
// ignored.
func (s *SQLite) SaveResult(ctx context.Context, r game.Result) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO sessions
            (id, level, score, grid_size, steps, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Session, r.Level, r.Score, r.GridSize, r.Steps,
		r.StartedAt.UTC().Format(timeLayout), r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *SQLite) TopResults(ctx context.Context, limit int) ([]game.Result, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, level, score, grid_size, steps, started_at, finished_at
        FROM sessions
        ORDER BY score DESC, finished_at ASC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]game.Result, 0, limit)
	for rows.Next() {
		var (
			r                 game.Result
			started, finished string
		)
		if err := rows.Scan(&r.Session, &r.Level, &r.Score, &r.GridSize, &r.Steps, &started, &finished); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse started_at of %s: %w", r.Session, err)
		}
		if r.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at of %s: %w", r.Session, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error { return s.db.Close() }
