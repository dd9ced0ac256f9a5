// Package clock provides the timer facility used by the sync scheduler.
// Schedulers never touch time.AfterFunc directly; they arm timers through
// a Slot, which guarantees at most one live timer per slot by cancelling
// the previous handle before issuing a new one.
package clock

import (
	"sync"
	"time"
)

// Clock abstracts wall-clock time and delayed execution so schedulers can
// be driven deterministically in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc schedules fn to run after d elapses and returns a handle
	// that can cancel the pending execution.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a handle to a pending delayed execution.
type Timer interface {
	// Stop cancels the pending execution. It returns true if the call
	// prevented the callback from firing.
	Stop() bool
}

// systemClock implements Clock on top of the time package.
type systemClock struct{}

// System returns a Clock backed by real wall-clock timers.
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) Stop() bool {
	return s.t.Stop()
}

// Slot owns at most one live timer. Arming a slot that already holds a
// timer cancels the old handle first, as a single atomic step, so two
// live timers of the same kind can never coexist. A closed slot stays
// empty forever: Arm calls racing with Close are dropped.
type Slot struct {
	mu     sync.Mutex
	clk    Clock
	timer  Timer
	period time.Duration
	armed  bool
	closed bool
}

// NewSlot creates an empty slot bound to clk.
func NewSlot(clk Clock) *Slot {
	return &Slot{clk: clk}
}

// Arm cancels any pending timer in the slot and arms a new one firing
// after d. No-op on a closed slot.
func (s *Slot) Arm(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clk.AfterFunc(d, fn)
	s.period = d
	s.armed = true
}

// Cancel stops any pending timer and empties the slot. Safe to call on an
// empty slot.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed = false
}

// Close cancels any pending timer and retires the slot. Once closed the
// slot can never hold a timer again; a caller that checked liveness
// before Close cannot revive it afterwards.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.armed = false
	s.closed = true
}

// Period returns the duration the slot was last armed with, and whether
// the slot currently holds a timer.
func (s *Slot) Period() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.period, s.armed
}
