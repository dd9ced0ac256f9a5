package clock

import (
	"sync"
	"time"
)

// Fake is a manually-advanced Clock for tests. Timer callbacks run
// synchronously on the goroutine calling Advance, in deadline order.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	created int
	stopped int
}

// NewFake creates a fake clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now returns the fake current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// AfterFunc registers fn to fire when the fake clock advances past d.
func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clk:      f,
		deadline: f.now.Add(d),
		fn:       fn,
	}
	f.timers = append(f.timers, t)
	f.created++
	return t
}

// Advance moves the clock forward by d, firing due timers in deadline
// order. Callbacks run without the clock lock held, so they may arm or
// cancel timers themselves.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		t := f.popDue(target)
		if t == nil {
			break
		}
		if t.deadline.After(f.now) {
			f.now = t.deadline
		}
		f.mu.Unlock()
		t.fn()
		f.mu.Lock()
	}

	f.now = target
	f.mu.Unlock()
}

// popDue removes and returns the earliest pending timer with a deadline
// at or before target, or nil. Caller holds f.mu.
func (f *Fake) popDue(target time.Time) *fakeTimer {
	idx := -1
	for i, t := range f.timers {
		if t.deadline.After(target) {
			continue
		}
		if idx == -1 || t.deadline.Before(f.timers[idx].deadline) {
			idx = i
		}
	}
	if idx == -1 {
		return nil
	}
	t := f.timers[idx]
	f.timers = append(f.timers[:idx], f.timers[idx+1:]...)
	return t
}

// Pending returns the number of timers currently waiting to fire.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Created returns the total number of timers ever armed on this clock.
func (f *Fake) Created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

// Stopped returns the number of timers cancelled before firing.
func (f *Fake) Stopped() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type fakeTimer struct {
	clk      *Fake
	deadline time.Time
	fn       func()
}

func (t *fakeTimer) Stop() bool {
	t.clk.mu.Lock()
	defer t.clk.mu.Unlock()

	for i, pending := range t.clk.timers {
		if pending == t {
			t.clk.timers = append(t.clk.timers[:i], t.clk.timers[i+1:]...)
			t.clk.stopped++
			return true
		}
	}
	return false
}
