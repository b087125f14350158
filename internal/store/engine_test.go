package store

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/memorygrid/internal/clock"
	"github.com/robalobadob/memorygrid/internal/game"
)

type nopDisplay struct{}

func (nopDisplay) RenderGrid(int) {}
func (nopDisplay) SetCellHighlighted(int, bool) {}
func (nopDisplay) SetInputEnabled(bool) {}
func (nopDisplay) ShowStatus(string, game.StatusKind) {}
func (nopDisplay) ShowScoreboard(level, score, best int) {}

// playSession wins rounds times, then fails, and returns the final score.
func playSession(t *testing.T, e *game.Engine, c *clock.Fake, rounds int) int {
	t.Helper()
	ctx := context.Background()
	if err := e.Start(); err != nil {
		t.Fatal(err)
	}
	for r := 0; r <= rounds; r++ {
		for e.Snapshot().Mode != game.ModeAwaitingInput {
			c.Advance(100 * time.Millisecond)
		}
		s := e.Snapshot()
		if r == rounds {
			if out, err := e.SubmitStep(ctx, (s.Sequence[0]+1)%s.Cells()); err != nil || out != game.OutcomeGameOver {
				t.Fatalf("wrong step: %s, %v", out, err)
			}
			return e.Snapshot().Score
		}
		for _, cell := range s.Sequence {
			if _, err := e.SubmitStep(ctx, cell); err != nil {
				t.Fatal(err)
			}
		}
	}
	return -1
}

func TestEngineBestSurvivesRestart(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()
	c := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newEngine := func() *game.Engine {
		e, err := game.New(ctx, nopDisplay{}, s,
			game.WithClock(c),
			game.WithRand(rand.New(rand.NewPCG(7, 7))),
			game.WithLogger(zerolog.Nop()),
		)
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(e.Close)
		return e
	}

	first := newEngine()
	if score := playSession(t, first, c, 4); score != 100 {
		t.Fatalf("first session score = %d, want 100", score)
	}
	if score := playSession(t, first, c, 1); score != 10 {
		t.Fatalf("second session score = %d, want 10", score)
	}

	// a fresh engine loads the persisted best
	second := newEngine()
	if best := second.Snapshot().Best; best != 100 {
		t.Errorf("best after restart = %d, want 100", best)
	}

	top, err := s.TopResults(ctx, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].Score != 100 || top[0].GridSize != 4 || top[1].Score != 10 {
		t.Errorf("history = %+v", top)
	}
}
