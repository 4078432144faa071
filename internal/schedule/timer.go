package schedule

import (
	"sync"
	"time"
)

// Timer holds at most one pending callback. Reset cancels whatever is
// pending and schedules a new callback; a callback that was superseded
// never runs, even if its underlying timer already fired.
//
// Thread-safety: All methods are safe for concurrent use.
type Timer struct {
	mu      sync.Mutex
	sched   Scheduler
	cancel  CancelFunc
	seq     uint64 // sequence number to detect stale callbacks
	pending bool
}

// NewTimer creates a timer on the given scheduler.
// A nil scheduler means System().
func NewTimer(s Scheduler) *Timer {
	if s == nil {
		s = System()
	}
	return &Timer{sched: s}
}

// Reset cancels any pending callback and schedules fn after delay.
func (t *Timer) Reset(delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.seq++
	current := t.seq
	t.pending = true

	t.cancel = t.sched.Schedule(delay, func() {
		t.mu.Lock()
		if !t.pending || t.seq != current {
			t.mu.Unlock()
			return
		}
		t.pending = false
		t.cancel = nil
		t.mu.Unlock()
		fn()
	})
}

// Stop cancels the pending callback. It reports whether one was pending.
func (t *Timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := t.pending
	t.stopLocked()
	return was
}

// Pending reports whether a callback is waiting to run.
func (t *Timer) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

func (t *Timer) stopLocked() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	// Increment seq to invalidate any running timer callback
	t.seq++
	t.pending = false
}
