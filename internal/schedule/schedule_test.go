package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualAdvanceRunsDueTasksInOrder(t *testing.T) {
	m := NewManual(epoch)
	var order []string

	m.Schedule(200*time.Millisecond, func() { order = append(order, "b") })
	m.Schedule(100*time.Millisecond, func() { order = append(order, "a") })
	m.Schedule(time.Second, func() { order = append(order, "c") })

	m.Advance(500 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, 1, m.Pending())
	assert.Equal(t, epoch.Add(500*time.Millisecond), m.Now())

	m.Advance(500 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, m.Pending())
}

func TestManualCancel(t *testing.T) {
	m := NewManual(epoch)
	ran := false
	cancel := m.Schedule(time.Second, func() { ran = true })

	assert.True(t, cancel())
	assert.False(t, cancel())
	m.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestManualNestedSchedule(t *testing.T) {
	m := NewManual(epoch)
	var at []time.Duration

	m.Schedule(100*time.Millisecond, func() {
		at = append(at, m.Now().Sub(epoch))
		m.Schedule(100*time.Millisecond, func() {
			at = append(at, m.Now().Sub(epoch))
		})
	})

	m.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, at)
}

func TestTimerResetSupersedes(t *testing.T) {
	m := NewManual(epoch)
	timer := NewTimer(m)
	var fired []int

	timer.Reset(100*time.Millisecond, func() { fired = append(fired, 1) })
	m.Advance(50 * time.Millisecond)
	timer.Reset(100*time.Millisecond, func() { fired = append(fired, 2) })
	assert.True(t, timer.Pending())

	m.Advance(60 * time.Millisecond)
	assert.Empty(t, fired)

	m.Advance(50 * time.Millisecond)
	assert.Equal(t, []int{2}, fired)
	assert.False(t, timer.Pending())
}

func TestTimerStop(t *testing.T) {
	m := NewManual(epoch)
	timer := NewTimer(m)
	ran := false

	timer.Reset(time.Second, func() { ran = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	m.Advance(2 * time.Second)
	assert.False(t, ran)
}

func TestDebouncer(t *testing.T) {
	m := NewManual(epoch)
	var calls int
	d := NewDebouncer(m, 100*time.Millisecond, func() { calls++ })

	for i := 0; i < 5; i++ {
		d.Call()
		m.Advance(50 * time.Millisecond)
	}
	assert.Equal(t, 0, calls)
	assert.True(t, d.IsPending())

	m.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, calls)

	d.Call()
	d.CallImmediate()
	assert.Equal(t, 2, calls)
	d.CallImmediate()
	assert.Equal(t, 2, calls)

	d.Call()
	d.Cancel()
	m.Advance(time.Second)
	assert.Equal(t, 2, calls)
}

func TestSystemScheduler(t *testing.T) {
	s := System()
	var fired atomic.Bool
	done := make(chan struct{})

	s.Schedule(5*time.Millisecond, func() {
		fired.Store(true)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "system scheduler never fired")
	}
	assert.True(t, fired.Load())

	cancel := s.Schedule(time.Hour, func() {})
	assert.True(t, cancel())
}
