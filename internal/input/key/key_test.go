package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyFromName(t *testing.T) {
	k, ok := KeyFromName("ESC")
	assert.True(t, ok)
	assert.Equal(t, "Escape", k)

	k, ok = KeyFromName("space")
	assert.True(t, ok)
	assert.Equal(t, Space, k)

	_, ok = KeyFromName("k")
	assert.False(t, ok)
}

func TestIsKnownKey(t *testing.T) {
	for _, name := range []string{"k", "K", "?", "é", "F12", "f24", "PageDown", "pgup", " ", "space", "CapsLock"} {
		assert.True(t, IsKnownKey(name), name)
	}
	for _, name := range []string{"foo", "F99", "ctrlk"} {
		assert.False(t, IsKnownKey(name), name)
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "K", capitalize("k"))
	assert.Equal(t, "PageDown", capitalize("pageDown"))
	assert.Equal(t, "É", capitalize("é"))
	assert.Equal(t, "1", capitalize("1"))
	assert.Equal(t, "", capitalize(""))
}
