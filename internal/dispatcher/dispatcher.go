package dispatcher

import (
	"strings"
	"sync"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/logging"
	"github.com/dshills/keycmd/internal/schedule"
)

// Dispatcher matches key press sequences against a registry's bindings.
type Dispatcher struct {
	mu sync.Mutex

	registry *action.Registry
	config   Config

	sched  schedule.Scheduler
	timer  *schedule.Timer
	logger *logging.Logger

	// Metrics
	metrics *Metrics

	preHooks  []PreDispatchHook
	postHooks []PostDispatchHook

	// sequence holds lower-cased keybinding tokens of the live chord.
	sequence []string
	// generation changes on every press and reset; a timeout scheduled for
	// an older generation is ignored.
	generation uint64
	closed     bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithScheduler sets the scheduler that drives the sequence-reset timer.
func WithScheduler(s schedule.Scheduler) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sched = s
		}
	}
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a dispatcher bound to reg.
func New(reg *action.Registry, config Config, opts ...Option) *Dispatcher {
	if config.SequenceTimeout <= 0 {
		config.SequenceTimeout = DefaultSequenceTimeout
	}

	d := &Dispatcher{
		registry: reg,
		config:   config,
		sched:    schedule.System(),
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.WithComponent("dispatcher")
	d.timer = schedule.NewTimer(d.sched)

	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	return d
}

// NewWithDefaults creates a dispatcher with the default configuration.
func NewWithDefaults(reg *action.Registry) *Dispatcher {
	return New(reg, DefaultConfig())
}

// Registry returns the registry the dispatcher matches against.
func (d *Dispatcher) Registry() *action.Registry {
	return d.registry
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}

// Metrics returns the metrics collector, or nil if metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Stats returns a snapshot of the dispatcher counters.
// It returns the zero snapshot if metrics are disabled.
func (d *Dispatcher) Stats() MetricsSnapshot {
	if d.metrics == nil {
		return MetricsSnapshot{}
	}
	return d.metrics.Snapshot()
}

// OnKeyPress feeds one key press into the dispatcher.
//
// It reports whether the press was consumed, either because it completed a
// bound sequence or because it extended a sequence that may still complete.
// A completed sequence is reported as consumed even when the action's
// precondition prevented it from running. The error is the executed
// action's Run error, or ErrDispatcherStopped after Close.
func (d *Dispatcher) OnKeyPress(ev key.Event, scope action.Context, args ...any) (bool, error) {
	token := strings.ToLower(key.EventToKeybinding(ev))
	bindings := d.registry.Bindings()

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false, ErrDispatcherStopped
	}
	if d.metrics != nil {
		d.metrics.recordKey()
	}

	d.sequence = append(d.sequence, token)
	d.generation++
	gen := d.generation
	d.timer.Reset(d.config.SequenceTimeout, func() { d.expire(gen) })
	current := key.Sequence(d.sequence)

	var matched *action.Action
	var matchedSeq key.Sequence
	live := false
	for _, b := range bindings {
		if b.Sequence.Equal(current) {
			matched, matchedSeq = b.Action, b.Sequence
			break
		}
		if !live && len(b.Sequence) > len(current) && b.Sequence.HasPrefix(current) {
			live = true
		}
	}

	if matched == nil {
		if live {
			d.logger.Debug("sequence pending", "sequence", strings.Join(d.sequence, " "))
			d.mu.Unlock()
			if d.metrics != nil {
				d.metrics.recordPrefix()
			}
			return true, nil
		}
		d.logger.Debug("sequence reset", "sequence", strings.Join(d.sequence, " "))
		d.resetLocked()
		d.mu.Unlock()
		if d.metrics != nil {
			d.metrics.recordMiss()
		}
		return false, nil
	}

	d.resetLocked()
	preHooks := append([]PreDispatchHook(nil), d.preHooks...)
	postHooks := append([]PostDispatchHook(nil), d.postHooks...)
	d.mu.Unlock()

	d.logger.Debug("sequence matched", "action", matched.ID, "sequence", matchedSeq.String())

	if !runPreHooks(preHooks, matched, matchedSeq, scope) {
		if d.metrics != nil {
			d.metrics.recordCancel()
		}
		runPostHooks(postHooks, matched, matchedSeq, scope, ErrActionCancelled)
		return true, nil
	}

	start := d.sched.Now()
	err := d.registry.ExecuteAction(matched, scope, args...)
	if d.metrics != nil {
		end := d.sched.Now()
		d.metrics.recordMatch(matched.ID, end, end.Sub(start), err != nil)
	}
	runPostHooks(postHooks, matched, matchedSeq, scope, err)
	return true, err
}

// Pending returns the live partial sequence, formatted for display.
func (d *Dispatcher) Pending() key.Sequence {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.sequence) == 0 {
		return nil
	}
	return key.NewSequence(d.sequence...)
}

// Reset abandons the live sequence.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

// Close stops the reset timer. Further key presses fail with
// ErrDispatcherStopped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
	d.closed = true
}

// expire is the reset timer callback for the press that set gen.
func (d *Dispatcher) expire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation || len(d.sequence) == 0 {
		return
	}
	d.logger.Debug("sequence timed out", "sequence", strings.Join(d.sequence, " "))
	d.sequence = nil
	if d.metrics != nil {
		d.metrics.recordTimeout()
	}
}

func (d *Dispatcher) resetLocked() {
	d.sequence = nil
	d.generation++
	d.timer.Stop()
}
