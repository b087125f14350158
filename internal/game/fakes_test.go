package game

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/memorygrid/internal/clock"
	"github.com/robalobadob/memorygrid/internal/playback"
)

type statusCall struct {
	text string
	kind StatusKind
}

// fakeDisplay records every call the engine makes.
type fakeDisplay struct {
	grids        []int
	lit          map[int]bool
	maxLit       int
	highlights   int
	inputEnabled bool
	statuses     []statusCall
	level        int
	score        int
	best         int
}

func newFakeDisplay() *fakeDisplay { return &fakeDisplay{lit: map[int]bool{}} }

func (d *fakeDisplay) RenderGrid(size int) {
	d.grids = append(d.grids, size)
	d.lit = map[int]bool{}
}

func (d *fakeDisplay) SetCellHighlighted(cell int, on bool) {
	d.highlights++
	if on {
		d.lit[cell] = true
	} else {
		delete(d.lit, cell)
	}
	if len(d.lit) > d.maxLit {
		d.maxLit = len(d.lit)
	}
}

func (d *fakeDisplay) SetInputEnabled(enabled bool) { d.inputEnabled = enabled }

func (d *fakeDisplay) ShowStatus(text string, kind StatusKind) {
	d.statuses = append(d.statuses, statusCall{text: text, kind: kind})
}

func (d *fakeDisplay) ShowScoreboard(level, score, best int) {
	d.level, d.score, d.best = level, score, best
}

func (d *fakeDisplay) lastStatus() statusCall {
	if len(d.statuses) == 0 {
		return statusCall{}
	}
	return d.statuses[len(d.statuses)-1]
}

// fakeStore is an in-memory ScoreStore with injectable failures.
type fakeStore struct {
	best    int
	saves   []int
	results []Result
	loadErr error
	saveErr error
}

func (s *fakeStore) LoadBest(ctx context.Context) (int, error) { return s.best, s.loadErr }

func (s *fakeStore) SaveBest(ctx context.Context, best int) error {
	s.saves = append(s.saves, best)
	if s.saveErr != nil {
		return s.saveErr
	}
	s.best = best
	return nil
}

func (s *fakeStore) SaveResult(ctx context.Context, r Result) error {
	s.results = append(s.results, r)
	return s.saveErr
}

type harness struct {
	t       *testing.T
	engine  *Engine
	display *fakeDisplay
	store   *fakeStore
	clock   *clock.Fake
	events  []Event
}

func newHarness(t *testing.T, store *fakeStore, opts ...Option) *harness {
	t.Helper()
	if store == nil {
		store = &fakeStore{}
	}
	h := &harness{
		t:       t,
		display: newFakeDisplay(),
		store:   store,
		clock:   clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
	base := []Option{
		WithClock(h.clock),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithLogger(zerolog.Nop()),
		WithObserver(func(ev Event) { h.events = append(h.events, ev) }),
	}
	e, err := New(context.Background(), h.display, store, append(base, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Close)
	h.engine = e
	return h
}

// awaitInput advances the clock until the engine accepts input.
func (h *harness) awaitInput() State {
	h.t.Helper()
	for i := 0; i < 1000; i++ {
		if s := h.engine.Snapshot(); s.Mode == ModeAwaitingInput {
			return s
		}
		h.clock.Advance(100 * time.Millisecond)
	}
	h.t.Fatalf("engine never reached %s, mode %s", ModeAwaitingInput, h.engine.Snapshot().Mode)
	return State{}
}

func (h *harness) submit(cell int) Outcome {
	h.t.Helper()
	out, err := h.engine.SubmitStep(context.Background(), cell)
	if err != nil {
		h.t.Fatalf("SubmitStep(%d): %v", cell, err)
	}
	return out
}

// winRound reproduces the whole sequence of the current round.
func (h *harness) winRound() State {
	h.t.Helper()
	s := h.awaitInput()
	for i, cell := range s.Sequence {
		out := h.submit(cell)
		want := OutcomeAccepted
		if i == len(s.Sequence)-1 {
			want = OutcomeRoundWon
		}
		if out != want {
			h.t.Fatalf("step %d of %d: outcome %s, want %s", i, len(s.Sequence), out, want)
		}
	}
	return h.engine.Snapshot()
}

func (h *harness) gridGrown() []GridGrown {
	var out []GridGrown
	for _, ev := range h.events {
		if g, ok := ev.(GridGrown); ok {
			out = append(out, g)
		}
	}
	return out
}

func noFlash() Option {
	t := playback.DefaultTimings()
	t.TapFlash = 0
	return WithTimings(t)
}
