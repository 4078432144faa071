package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSequence(t *testing.T) {
	seq := ParseSequence("ctrl+k  ctrl+c")
	assert.Equal(t, Sequence{"Ctrl+K", "Ctrl+C"}, seq)
	assert.Equal(t, 2, seq.Len())
	assert.Nil(t, ParseSequence("   "))
	assert.True(t, ParseSequence("").IsEmpty())
}

func TestNewSequence(t *testing.T) {
	assert.Equal(t, Sequence{"G", "G"}, NewSequence("g", "g"))
	assert.Nil(t, NewSequence())
}

func TestSequenceEqual(t *testing.T) {
	seq := NewSequence("Ctrl+K", "Ctrl+C")
	assert.True(t, seq.Equal([]string{"ctrl+k", "ctrl+c"}))
	assert.False(t, seq.Equal([]string{"ctrl+k"}))
	assert.False(t, seq.Equal([]string{"ctrl+k", "ctrl+v"}))

	space := NewSequence("ctrl+space", "x")
	assert.True(t, space.Equal([]string{"ctrl+space", "x"}))
}

func TestSequenceHasPrefix(t *testing.T) {
	seq := NewSequence("Ctrl+K", "Ctrl+C")
	assert.True(t, seq.HasPrefix(nil))
	assert.True(t, seq.HasPrefix([]string{"ctrl+k"}))
	assert.True(t, seq.HasPrefix([]string{"ctrl+k", "ctrl+c"}))
	assert.False(t, seq.HasPrefix([]string{"ctrl+c"}))
	assert.False(t, seq.HasPrefix([]string{"ctrl+k", "ctrl+c", "x"}))
}

func TestSequenceCloneAndString(t *testing.T) {
	seq := NewSequence("ctrl+k", "ctrl+space")
	clone := seq.Clone()
	clone[0] = "X"
	assert.Equal(t, "Ctrl+K", seq[0])
	assert.Equal(t, "Ctrl+K Ctrl+Space", seq.String())
	assert.Nil(t, Sequence(nil).Clone())
}
