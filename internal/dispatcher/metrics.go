package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects key press and match statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-action metrics
	actionMetrics map[string]*ActionMetrics

	// Global counters
	keys        uint64
	matches     uint64
	prefixHolds uint64
	misses      uint64
	timeouts    uint64
	cancelled   uint64
	errors      uint64

	// Timing
	totalDuration time.Duration
}

// ActionMetrics holds metrics for a specific action.
type ActionMetrics struct {
	ID            string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		actionMetrics: make(map[string]*ActionMetrics),
	}
}

func (m *Metrics) recordKey() {
	m.mu.Lock()
	m.keys++
	m.mu.Unlock()
}

func (m *Metrics) recordPrefix() {
	m.mu.Lock()
	m.prefixHolds++
	m.mu.Unlock()
}

func (m *Metrics) recordMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
}

func (m *Metrics) recordTimeout() {
	m.mu.Lock()
	m.timeouts++
	m.mu.Unlock()
}

func (m *Metrics) recordCancel() {
	m.mu.Lock()
	m.cancelled++
	m.mu.Unlock()
}

// recordMatch records an executed match.
func (m *Metrics) recordMatch(id string, at time.Time, duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.matches++
	m.totalDuration += duration
	if failed {
		m.errors++
	}

	am := m.actionMetrics[id]
	if am == nil {
		am = &ActionMetrics{
			ID:          id,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.actionMetrics[id] = am
	}

	am.DispatchCount++
	am.TotalDuration += duration
	am.LastDispatch = at

	if duration < am.MinDuration {
		am.MinDuration = duration
	}
	if duration > am.MaxDuration {
		am.MaxDuration = duration
	}
	if failed {
		am.ErrorCount++
	}
}

// ActionStats returns metrics for a specific action.
func (m *Metrics) ActionStats(id string) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	am := m.actionMetrics[id]
	if am == nil {
		return nil
	}

	// Return a copy
	c := *am
	return &c
}

// TopActions returns the top N most dispatched actions.
func (m *Metrics) TopActions(n int) []*ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	actions := make([]*ActionMetrics, 0, len(m.actionMetrics))
	for _, am := range m.actionMetrics {
		c := *am
		actions = append(actions, &c)
	}

	sort.Slice(actions, func(i, j int) bool {
		if actions[i].DispatchCount != actions[j].DispatchCount {
			return actions[i].DispatchCount > actions[j].DispatchCount
		}
		return actions[i].ID < actions[j].ID
	})

	if n > len(actions) {
		n = len(actions)
	}
	return actions[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actionMetrics = make(map[string]*ActionMetrics)
	m.keys = 0
	m.matches = 0
	m.prefixHolds = 0
	m.misses = 0
	m.timeouts = 0
	m.cancelled = 0
	m.errors = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the global counters.
type MetricsSnapshot struct {
	Keys            uint64
	Matches         uint64
	PrefixHolds     uint64
	Misses          uint64
	Timeouts        uint64
	Cancelled       uint64
	Errors          uint64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	ActionCount     int
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		Keys:          m.keys,
		Matches:       m.matches,
		PrefixHolds:   m.prefixHolds,
		Misses:        m.misses,
		Timeouts:      m.timeouts,
		Cancelled:     m.cancelled,
		Errors:        m.errors,
		TotalDuration: m.totalDuration,
		ActionCount:   len(m.actionMetrics),
	}

	if m.matches > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.matches)
	}

	return snapshot
}

// AverageActionDuration returns the average duration for a specific action.
func (am *ActionMetrics) AverageActionDuration() time.Duration {
	if am.DispatchCount == 0 {
		return 0
	}
	return am.TotalDuration / time.Duration(am.DispatchCount)
}

// ErrorRate returns the error rate as a percentage.
func (am *ActionMetrics) ErrorRate() float64 {
	if am.DispatchCount == 0 {
		return 0
	}
	return float64(am.ErrorCount) / float64(am.DispatchCount) * 100
}
