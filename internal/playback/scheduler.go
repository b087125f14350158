// internal/playback/scheduler.go
//
// Timed playback of the target sequence.
// Responsibilities:
//   - Reveal a sequence one cell at a time with fixed delays, then hand
//     control back through a completion callback.
//   - Track exactly one in-flight run (a reveal or a single delayed
//     continuation) and cancel it on demand.
//
// Timeline of Reveal for steps s0..sN-1:
//
//	LeadIn, Gap, on(s0), Show, off(s0), Gap, on(s1), Show, off(s1), ..., Gap, done
//
// The final Gap is the trailing pause before input opens.

package playback

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/memorygrid/internal/clock"
)

// Timings are the fixed delays of a reveal.
type Timings struct {
	LeadIn     time.Duration // pause before the first highlight
	Gap        time.Duration // pause before each highlight and after the last one
	Show       time.Duration // how long a cell stays highlighted
	RoundPause time.Duration // pause between a won round and the next one
	TapFlash   time.Duration // feedback flash on a pressed cell
}

// DefaultTimings returns the delays the game was tuned with.
func DefaultTimings() Timings {
	return Timings{
		LeadIn:     1000 * time.Millisecond,
		Gap:        500 * time.Millisecond,
		Show:       600 * time.Millisecond,
		RoundPause: 1500 * time.Millisecond,
		TapFlash:   300 * time.Millisecond,
	}
}

// RevealDuration is the time from Reveal to its completion callback for a
// sequence of n steps.
func (t Timings) RevealDuration(n int) time.Duration {
	return t.LeadIn + time.Duration(n)*(t.Gap+t.Show) + t.Gap
}

// Scheduler runs reveals on a Clock.
type Scheduler struct {
	clock   clock.Clock
	timings Timings
	log     zerolog.Logger

	mu    sync.Mutex
	gen   uint64      // bumped on every new run and on Cancel
	timer clock.Timer // pending timer of the current run
}

// New constructs a Scheduler.
func New(c clock.Clock, t Timings, log zerolog.Logger) *Scheduler {
	return &Scheduler{clock: c, timings: t, log: log}
}

// action is one step of a run, fired after delay.
type action struct {
	delay time.Duration
	fire  func()
}

// Reveal plays steps in order, calling highlight(cell, true/false) around
// each one, and done once the trailing pause has elapsed. Any previous run
// is cancelled first. The steps slice is copied.
func (s *Scheduler) Reveal(steps []int, highlight func(cell int, on bool), done func()) {
	plan := make([]action, 0, 2*len(steps)+1)
	lead := s.timings.LeadIn
	for _, cell := range steps {
		cell := cell
		plan = append(plan,
			action{delay: lead + s.timings.Gap, fire: func() { highlight(cell, true) }},
			action{delay: s.timings.Show, fire: func() { highlight(cell, false) }},
		)
		lead = 0
	}
	plan = append(plan, action{delay: lead + s.timings.Gap, fire: done})

	s.log.Debug().Int("steps", len(steps)).Dur("total", s.timings.RevealDuration(len(steps))).Msg("reveal scheduled")
	s.start(plan)
}

// After runs fn once d has elapsed, replacing any in-flight run.
func (s *Scheduler) After(d time.Duration, fn func()) {
	s.start([]action{{delay: d, fire: fn}})
}

// Cancel stops the in-flight run, if any. Callbacks of a cancelled run
// never fire.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.gen++
}

// Busy reports whether a run is in flight.
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

func (s *Scheduler) start(plan []action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.gen++
	s.scheduleLocked(s.gen, plan, 0)
}

func (s *Scheduler) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) scheduleLocked(gen uint64, plan []action, i int) {
	if i >= len(plan) {
		s.timer = nil
		return
	}
	s.timer = s.clock.AfterFunc(plan[i].delay, func() { s.step(gen, plan, i) })
}

// step fires plan[i] and schedules plan[i+1]. The action runs without the
// scheduler lock held so it may call back into its owner.
func (s *Scheduler) step(gen uint64, plan []action, i int) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	plan[i].fire()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// cancelled, or replaced by the action itself
		return
	}
	s.scheduleLocked(gen, plan, i+1)
}
