package schedule

import "time"

// Debouncer groups rapid successive calls into a single callback invocation
// after a quiet period.
//
// Thread-safety: All methods are safe for concurrent use.
type Debouncer struct {
	timer    *Timer
	delay    time.Duration
	callback func()
}

// NewDebouncer creates a debouncer with the specified delay.
//
// The callback will be invoked after no new calls have been made
// for at least 'delay' duration.
func NewDebouncer(s Scheduler, delay time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		timer:    NewTimer(s),
		delay:    delay,
		callback: callback,
	}
}

// Call schedules the callback to run after the debounce delay.
func (d *Debouncer) Call() {
	d.timer.Reset(d.delay, d.callback)
}

// CallImmediate runs the callback now if a call is pending, canceling the
// scheduled invocation.
func (d *Debouncer) CallImmediate() {
	if d.timer.Stop() {
		d.callback()
	}
}

// Cancel cancels any pending debounced call.
func (d *Debouncer) Cancel() {
	d.timer.Stop()
}

// IsPending returns true if there's a pending debounced call.
func (d *Debouncer) IsPending() bool {
	return d.timer.Pending()
}
