package schedule

import (
	"sort"
	"sync"
	"time"
)

// CancelFunc cancels a scheduled callback. It reports whether the callback
// was stopped before it ran. Calling it more than once is safe.
type CancelFunc func() bool

// Scheduler runs callbacks after a delay and reports the current time.
type Scheduler interface {
	// Schedule runs fn once after delay. The returned CancelFunc stops it.
	Schedule(delay time.Duration, fn func()) CancelFunc

	// Now returns the scheduler's current time.
	Now() time.Time
}

// System returns a Scheduler backed by the runtime timer. Callbacks run on
// their own goroutine.
func System() Scheduler {
	return systemScheduler{}
}

type systemScheduler struct{}

func (systemScheduler) Schedule(delay time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(delay, fn)
	return t.Stop
}

func (systemScheduler) Now() time.Time {
	return time.Now()
}

// Manual is a Scheduler whose clock only moves when Advance is called.
// Callbacks run synchronously inside Advance, in due-time order.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	tasks  []*manualTask
	nextID uint64
}

type manualTask struct {
	id  uint64
	due time.Time
	fn  func()
}

// NewManual creates a manual scheduler starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Schedule implements Scheduler.
func (m *Manual) Schedule(delay time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.tasks = append(m.tasks, &manualTask{id: id, due: m.now.Add(delay), fn: fn})

	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, t := range m.tasks {
			if t.id == id {
				m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
				return true
			}
		}
		return false
	}
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, running every callback that becomes
// due. Callbacks may schedule further callbacks; those run too if they fall
// within the advanced window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)

	for {
		sort.SliceStable(m.tasks, func(i, j int) bool {
			return m.tasks[i].due.Before(m.tasks[j].due)
		})
		if len(m.tasks) == 0 || m.tasks[0].due.After(target) {
			break
		}
		next := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.now = next.due

		m.mu.Unlock()
		next.fn()
		m.mu.Lock()
	}

	m.now = target
	m.mu.Unlock()
}

// Pending returns the number of callbacks waiting to run.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
