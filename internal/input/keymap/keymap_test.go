package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeymapBuilders(t *testing.T) {
	km := NewKeymap("user").
		WithSource("test-source").
		Add("editor.save", "ctrl+s", "cmd+s").
		AddSequence("editor.comment", "ctrl+k ctrl+c").
		Add("editor.cut")

	assert.Equal(t, "user", km.Name)
	assert.Equal(t, "test-source", km.Source)
	require.Len(t, km.Bindings, 3)
	assert.Equal(t, []string{"ctrl+s", "cmd+s"}, km.Bindings[0].Keys)
	assert.Equal(t, "ctrl+k ctrl+c", km.Bindings[1].Sequence)
	assert.NotNil(t, km.Bindings[2].Keys, "Add without keys clears bindings")
	assert.Empty(t, km.Bindings[2].Keys)
}

func TestKeymapValidate(t *testing.T) {
	tests := []struct {
		name    string
		keymap  *Keymap
		wantErr bool
	}{
		{
			name:   "valid keymap",
			keymap: NewKeymap("ok").Add("a", "ctrl+s").AddSequence("b", "ctrl+k ctrl+c"),
		},
		{
			name:   "clearing keys",
			keymap: NewKeymap("ok").Add("a"),
		},
		{
			name:    "empty action",
			keymap:  &Keymap{Bindings: []Binding{{Keys: []string{"j"}}}},
			wantErr: true,
		},
		{
			name:    "nothing to bind",
			keymap:  &Keymap{Bindings: []Binding{{Action: "a"}}},
			wantErr: true,
		},
		{
			name:    "unknown key",
			keymap:  NewKeymap("bad").Add("a", "ctrl+banana"),
			wantErr: true,
		},
		{
			name:    "chord in keys",
			keymap:  NewKeymap("bad").Add("a", "ctrl+k ctrl+c"),
			wantErr: true,
		},
		{
			name:    "bad chord in sequence",
			keymap:  NewKeymap("bad").AddSequence("a", "ctrl+k ctrl+"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.keymap.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBinding)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeymapMergeAndClone(t *testing.T) {
	base := NewKeymap("base").Add("a", "ctrl+a")
	user := NewKeymap("user").Add("a", "alt+a")

	merged := base.Merge(user)
	require.Len(t, merged.Bindings, 2)
	assert.Equal(t, "base", merged.Name)
	assert.Equal(t, []string{"alt+a"}, merged.Bindings[1].Keys)

	merged.Bindings[0].Keys[0] = "changed"
	assert.Equal(t, "ctrl+a", base.Bindings[0].Keys[0])

	assert.Len(t, base.Merge(nil).Bindings, 1)
}
