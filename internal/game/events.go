package game

// Event is a state-machine transition delivered to the observer.
type Event interface{ event() }

// SessionStarted follows every reset.
type SessionStarted struct {
	Session string
	Best    int
}

// RoundStarted is emitted when a new step has been appended and the
// reveal scheduled.
type RoundStarted struct {
	Session string
	Level   int
	Steps   int
}

// InputOpened is emitted when the reveal finished and input is accepted.
type InputOpened struct {
	Session string
	Level   int
}

// StepAccepted is a correct step that did not finish the round.
type StepAccepted struct {
	Session string
	Cell    int
	Index   int
}

// RoundWon carries the score and level after the round was credited.
type RoundWon struct {
	Session string
	Level   int
	Score   int
}

// GridGrown is emitted when the grid gains a row and a column.
type GridGrown struct {
	Session string
	Old     int
	New     int
}

// GameOver ends a session.
type GameOver struct {
	Session  string
	Score    int
	Best     int
	NewBest  bool
	Expected int // cell the player should have pressed
	Got      int
}

func (SessionStarted) event() {}
func (RoundStarted) event()   {}
func (InputOpened) event()    {}
func (StepAccepted) event()   {}
func (RoundWon) event()       {}
func (GridGrown) event()      {}
func (GameOver) event()       {}
