// internal/game/engine.go
//
// Core game engine for a memory-grid session.
// Responsibilities:
//   - Own the game state and every transition of the state machine:
//     idle → revealing → awaiting_input → {round_won → revealing, game_over}.
//   - Generate the next sequence step, judge each submitted step as soon as
//     it arrives, credit won rounds and grow the grid every five levels.
//   - Drive the reveal through the playback scheduler and tag every timed
//     callback with the session id so a reset silences stale timers.
//   - Persist the best score (only when improved) and each finished session.
//
// Notes:
//   - All methods are safe for concurrent use; timer callbacks run on their
//     own goroutines and serialize through the engine lock.
//   - Display and observer calls happen with the lock held.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robalobadob/memorygrid/internal/clock"
	"github.com/robalobadob/memorygrid/internal/playback"
)

// Status texts. They double as message catalog keys.
const (
	MsgWatch    = "Watch the sequence..."
	MsgYourTurn = "Your turn!"
	MsgRoundWon = "Well done! Next level..."
	MsgGameOver = "Game over! Final score: %d"
)

// Engine runs one game at a time against a Display and a ScoreStore.
type Engine struct {
	display Display
	scores  ScoreStore
	clock   clock.Clock
	timings playback.Timings
	sched   *playback.Scheduler
	rng     *rand.Rand
	log     zerolog.Logger
	printer *message.Printer
	observe func(Event)

	mu        sync.Mutex
	st        State
	startedAt time.Time
	closed    bool

	flash     clock.Timer // pending "off" of the pressed-cell flash
	flashCell int
	flashGen  uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock, typically with a clock.Fake in tests.
func WithClock(c clock.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithTimings overrides playback.DefaultTimings.
func WithTimings(t playback.Timings) Option { return func(e *Engine) { e.timings = t } }

// WithRand sets the source of new sequence steps.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.log = l } }

// WithPrinter localizes status texts.
func WithPrinter(p *message.Printer) Option { return func(e *Engine) { e.printer = p } }

// WithObserver receives every transition. It is called with the engine
// lock held and must not call back into the engine.
func WithObserver(fn func(Event)) Option { return func(e *Engine) { e.observe = fn } }

// New constructs an Engine in idle mode, loading the best score once.
func New(ctx context.Context, d Display, scores ScoreStore, opts ...Option) (*Engine, error) {
	if d == nil {
		return nil, errors.New("game: nil display")
	}
	if scores == nil {
		return nil, errors.New("game: nil score store")
	}
	e := &Engine{
		display: d,
		scores:  scores,
		clock:   clock.Real{},
		timings: playback.DefaultTimings(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:     log.Logger.With().Str("component", "engine").Logger(),
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sched = playback.New(e.clock, e.timings, e.log.With().Str("component", "playback").Logger())

	best, err := scores.LoadBest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load best score: %w", err)
	}
	e.st.Best = best

	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
	return e, nil
}

// Start resets the session and begins the first round. It may be called in
// any mode, which is how a game is restarted.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
	return e.beginRoundLocked()
}

// Reset returns to idle with a fresh session. Pending reveal or round
// timers of the previous session are cancelled.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

// BeginRound appends a step and reveals the whole sequence.
// Allowed only in idle or round_won mode.
func (e *Engine) BeginRound() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.beginRoundLocked()
}

// RevealComplete opens input once the reveal of session has finished.
// Calls for a stale session or outside revealing mode are ignored.
func (e *Engine) RevealComplete(session string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || session != e.st.Session || e.st.Mode != ModeRevealing {
		e.log.Debug().Str("session", session).Msg("stale reveal completion ignored")
		return
	}
	e.st.Mode = ModeAwaitingInput
	e.display.SetInputEnabled(true)
	e.display.ShowStatus(e.printer.Sprintf(MsgYourTurn), StatusNeutral)
	e.emit(InputOpened{Session: session, Level: e.st.Level})
}

// SubmitStep judges one cell pressed by the player. Outside awaiting_input
// the step is ignored without touching state. A cell off the grid is a
// contract violation.
func (e *Engine) SubmitStep(ctx context.Context, cell int) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.st.Mode != ModeAwaitingInput {
		return OutcomeIgnored, nil
	}
	if cell < 0 || cell >= e.st.Cells() {
		return OutcomeIgnored, fmt.Errorf("%w: cell %d outside %dx%d grid",
			ErrContractViolation, cell, e.st.GridSize, e.st.GridSize)
	}

	e.st.PlayerSequence = append(e.st.PlayerSequence, cell)
	e.flashLocked(cell)

	i := len(e.st.PlayerSequence) - 1
	if want := e.st.Sequence[i]; cell != want {
		e.gameOverLocked(ctx, want, cell)
		return OutcomeGameOver, nil
	}
	if len(e.st.PlayerSequence) == len(e.st.Sequence) {
		e.roundWonLocked()
		return OutcomeRoundWon, nil
	}
	e.emit(StepAccepted{Session: e.st.Session, Cell: cell, Index: i})
	return OutcomeAccepted, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.st
	s.Sequence = append([]int(nil), e.st.Sequence...)
	s.PlayerSequence = append([]int(nil), e.st.PlayerSequence...)
	return s
}

// Close cancels pending timers. Timed transitions never fire afterwards.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.sched.Cancel()
	e.stopFlashLocked()
}

func (e *Engine) resetLocked() {
	e.sched.Cancel()
	e.stopFlashLocked()
	e.st = State{
		Session:        uuid.NewString(),
		Mode:           ModeIdle,
		Level:          1,
		Score:          0,
		Best:           e.st.Best,
		GridSize:       MinGridSize,
		Sequence:       []int{},
		PlayerSequence: []int{},
	}
	e.startedAt = e.clock.Now()

	e.display.SetInputEnabled(false)
	e.display.RenderGrid(e.st.GridSize)
	e.display.ShowScoreboard(e.st.Level, e.st.Score, e.st.Best)
	e.emit(SessionStarted{Session: e.st.Session, Best: e.st.Best})
	e.log.Debug().Str("session", e.st.Session).Int("best", e.st.Best).Msg("session reset")
}

func (e *Engine) beginRoundLocked() error {
	if e.closed {
		return fmt.Errorf("%w: engine closed", ErrContractViolation)
	}
	if e.st.Mode != ModeIdle && e.st.Mode != ModeRoundWon {
		return fmt.Errorf("%w: begin round in mode %s", ErrContractViolation, e.st.Mode)
	}
	cells := e.st.Cells()
	next := e.rng.IntN(cells)
	if next < 0 || next >= cells {
		return fmt.Errorf("%w: generated cell %d outside grid of %d cells", ErrContractViolation, next, cells)
	}

	e.st.Sequence = append(e.st.Sequence, next)
	e.st.PlayerSequence = []int{}
	e.st.Mode = ModeRevealing

	e.clearFlashLocked()
	e.display.SetInputEnabled(false)
	e.display.ShowStatus(e.printer.Sprintf(MsgWatch), StatusWatching)

	session := e.st.Session
	e.sched.Reveal(e.st.Sequence,
		func(cell int, on bool) { e.revealHighlight(session, cell, on) },
		func() { e.RevealComplete(session) },
	)
	e.emit(RoundStarted{Session: session, Level: e.st.Level, Steps: len(e.st.Sequence)})
	e.log.Debug().Str("session", session).Int("level", e.st.Level).Int("steps", len(e.st.Sequence)).Msg("round started")
	return nil
}

func (e *Engine) revealHighlight(session string, cell int, on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || session != e.st.Session || e.st.Mode != ModeRevealing {
		return
	}
	e.display.SetCellHighlighted(cell, on)
}

// flashLocked lights a pressed cell for TapFlash. A new press ends the
// previous flash first, so at most one cell is flashing.
func (e *Engine) flashLocked(cell int) {
	if e.timings.TapFlash <= 0 {
		return
	}
	e.clearFlashLocked()
	e.display.SetCellHighlighted(cell, true)
	e.flashGen++
	gen := e.flashGen
	e.flashCell = cell
	e.flash = e.clock.AfterFunc(e.timings.TapFlash, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.closed || gen != e.flashGen {
			return
		}
		e.flash = nil
		e.display.SetCellHighlighted(cell, false)
	})
}

// clearFlashLocked turns off a flash still in progress.
func (e *Engine) clearFlashLocked() {
	if e.flash == nil {
		return
	}
	cell := e.flashCell
	e.stopFlashLocked()
	e.display.SetCellHighlighted(cell, false)
}

// stopFlashLocked cancels a pending flash without touching the display.
func (e *Engine) stopFlashLocked() {
	if e.flash != nil {
		e.flash.Stop()
		e.flash = nil
	}
	e.flashGen++
}

func (e *Engine) roundWonLocked() {
	e.st.Mode = ModeRoundWon
	e.st.Score += e.st.Level * pointsPerLevel
	e.st.Level++

	if e.st.Level%growEvery == 0 {
		old := e.st.GridSize
		e.st.GridSize = min(old+1, MaxGridSize)
		// rebuilt even at the cap so no highlight survives
		e.display.RenderGrid(e.st.GridSize)
		if e.st.GridSize != old {
			e.emit(GridGrown{Session: e.st.Session, Old: old, New: e.st.GridSize})
			e.log.Info().Str("session", e.st.Session).Int("from", old).Int("to", e.st.GridSize).Msg("grid grown")
		}
	}

	e.display.SetInputEnabled(false)
	e.display.ShowStatus(e.printer.Sprintf(MsgRoundWon), StatusSuccess)
	e.display.ShowScoreboard(e.st.Level, e.st.Score, e.st.Best)
	e.emit(RoundWon{Session: e.st.Session, Level: e.st.Level, Score: e.st.Score})

	session := e.st.Session
	e.sched.After(e.timings.RoundPause, func() { e.nextRound(session) })
}

func (e *Engine) nextRound(session string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || session != e.st.Session || e.st.Mode != ModeRoundWon {
		return
	}
	if err := e.beginRoundLocked(); err != nil {
		e.log.Error().Err(err).Str("session", session).Msg("begin next round")
	}
}

func (e *Engine) gameOverLocked(ctx context.Context, want, got int) {
	e.st.Mode = ModeGameOver
	e.sched.Cancel()
	e.display.SetInputEnabled(false)

	newBest := e.st.Score > e.st.Best
	if newBest {
		e.st.Best = e.st.Score
		if err := e.scores.SaveBest(ctx, e.st.Best); err != nil {
			e.log.Warn().Err(err).Int("best", e.st.Best).Msg("save best score")
		}
	}
	res := Result{
		Session:    e.st.Session,
		Level:      e.st.Level,
		Score:      e.st.Score,
		GridSize:   e.st.GridSize,
		Steps:      len(e.st.Sequence),
		StartedAt:  e.startedAt,
		FinishedAt: e.clock.Now(),
	}
	if err := e.scores.SaveResult(ctx, res); err != nil {
		e.log.Warn().Err(err).Str("session", res.Session).Msg("save session result")
	}

	e.display.ShowScoreboard(e.st.Level, e.st.Score, e.st.Best)
	e.display.ShowStatus(e.printer.Sprintf(MsgGameOver, e.st.Score), StatusError)
	e.emit(GameOver{
		Session:  e.st.Session,
		Score:    e.st.Score,
		Best:     e.st.Best,
		NewBest:  newBest,
		Expected: want,
		Got:      got,
	})
	e.log.Info().Str("session", e.st.Session).Int("score", e.st.Score).Int("level", e.st.Level).Bool("new_best", newBest).Msg("game over")
}

func (e *Engine) emit(ev Event) {
	if e.observe != nil {
		e.observe(ev)
	}
}
