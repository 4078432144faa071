package dispatcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/schedule"
)

func TestLateTimeoutKeepsExtendedSequence(t *testing.T) {
	reg := action.NewRegistry()
	reg.RegisterAction(&action.Action{
		ID:          "deep",
		KeySequence: key.Sequence{"Ctrl+K", "Ctrl+X", "Ctrl+C"},
	})
	d := New(reg, DefaultConfig(), WithScheduler(schedule.NewManual(time.Unix(0, 0))))
	defer d.Close()

	consumed, err := d.OnKeyPress(key.ParseEvent("ctrl+k"), nil)
	require.NoError(t, err)
	require.True(t, consumed)

	d.mu.Lock()
	first := d.generation
	d.mu.Unlock()

	consumed, err = d.OnKeyPress(key.ParseEvent("ctrl+x"), nil)
	require.NoError(t, err)
	require.True(t, consumed)

	// The first press's timeout arrives after the second press.
	d.expire(first)
	assert.Equal(t, key.Sequence{"Ctrl+K", "Ctrl+X"}, d.Pending())

	d.mu.Lock()
	current := d.generation
	d.mu.Unlock()
	d.expire(current)
	assert.Empty(t, d.Pending())
	assert.Zero(t, d.Stats().Timeouts, "metrics are off by default")
}
