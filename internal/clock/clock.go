// internal/clock/clock.go
//
// Time source abstraction for the game engine and the reveal scheduler.
// Responsibilities:
//   - Provide Now and one-shot AfterFunc timers behind an interface.
//   - Real uses the runtime timers; Fake (fake.go) is advanced by hand so
//     timed transitions can be exercised without wall-clock waits.

package clock

import "time"

// Clock schedules one-shot callbacks.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc callback.
type Timer interface {
	// Stop prevents the callback from firing.
	// Returns false if it already fired or was stopped.
	Stop() bool
}

// Real is the wall clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
