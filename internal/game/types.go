// internal/game/types.go
//
// Core type definitions for the memory-grid engine.
// Defines:
//   - Mode: phase of the state machine, drives which input is accepted.
//   - State: read-only snapshot of a game session.
//   - Outcome: result of submitting one step.
//   - Display / ScoreStore: collaborators the engine calls into.
//   - Result: summary of a finished session, handed to the store.

package game

import (
	"context"
	"time"
)

// Mode is the phase of the state machine.
//   - "idle":           reset, no round started.
//   - "revealing":      the sequence is being played back; input ignored.
//   - "awaiting_input": the player is reproducing the sequence.
//   - "round_won":      full match, next round pending.
//   - "game_over":      wrong step, session finished.
type Mode string

const (
	ModeIdle          Mode = "idle"
	ModeRevealing     Mode = "revealing"
	ModeAwaitingInput Mode = "awaiting_input"
	ModeRoundWon      Mode = "round_won"
	ModeGameOver      Mode = "game_over"
)

// Outcome reports what a submitted step did.
type Outcome string

const (
	OutcomeIgnored  Outcome = "ignored"   // not accepting input
	OutcomeAccepted Outcome = "accepted"  // correct, round continues
	OutcomeRoundWon Outcome = "round_won" // correct and complete
	OutcomeGameOver Outcome = "game_over" // wrong
)

// StatusKind tags a status line for the display.
type StatusKind string

const (
	StatusNeutral  StatusKind = "neutral"
	StatusWatching StatusKind = "watching"
	StatusSuccess  StatusKind = "success"
	StatusError    StatusKind = "error"
)

const (
	MinGridSize = 3
	MaxGridSize = 6

	// pointsPerLevel is multiplied by the level of every won round.
	pointsPerLevel = 10
	// growEvery levels the grid gains a row and a column.
	growEvery = 5
)

// State is a copy of the engine's game state.
type State struct {
	Session        string // Random session id, new on every reset.
	Mode           Mode
	Level          int   // ≥ 1
	Score          int   // ≥ 0
	Best           int   // highest score seen at a game over
	GridSize       int   // grid is GridSize × GridSize
	Sequence       []int // target cell indices
	PlayerSequence []int // player's reproduction so far
}

// Cells is the number of cells on the current grid.
func (s State) Cells() int { return s.GridSize * s.GridSize }

// Display receives presentation updates. The engine never reads anything
// back from it. Calls are made with the engine lock held, so an
// implementation must not call back into the engine synchronously.
type Display interface {
	RenderGrid(size int)
	SetCellHighlighted(cell int, on bool)
	SetInputEnabled(enabled bool)
	ShowStatus(text string, kind StatusKind)
	ShowScoreboard(level, score, best int)
}

// Result summarizes a finished session.
type Result struct {
	Session    string
	Level      int // level reached (the failed round)
	Score      int
	GridSize   int
	Steps      int // length of the target sequence
	StartedAt  time.Time
	FinishedAt time.Time
}

// ScoreStore persists the best score and finished sessions.
type ScoreStore interface {
	// LoadBest returns 0 when nothing has been saved yet.
	LoadBest(ctx context.Context) (int, error)
	SaveBest(ctx context.Context, best int) error
	SaveResult(ctx context.Context, r Result) error
}
