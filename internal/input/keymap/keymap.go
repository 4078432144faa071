package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keycmd/internal/input/key"
)

// ErrInvalidBinding indicates a malformed keymap entry.
var ErrInvalidBinding = errors.New("keymap: invalid binding")

// Binding overrides the shortcuts of one action.
type Binding struct {
	// Action is the id of the action to rebind.
	Action string `json:"action" toml:"action" yaml:"action"`

	// Keys replaces the action's single-chord keybindings when non-nil.
	// An empty, non-nil list removes them. Without a Sequence, Keys also
	// removes the action's chord sequence.
	Keys []string `json:"keys,omitempty" toml:"keys,omitempty" yaml:"keys,omitempty"`

	// Sequence replaces the action's chord sequence when non-empty,
	// written as whitespace-separated chords ("ctrl+k ctrl+c").
	Sequence string `json:"sequence,omitempty" toml:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// Keymap is an ordered list of binding overrides.
// When several bindings name the same action, later ones win.
type Keymap struct {
	// Name is the keymap identifier.
	Name string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`

	// Source indicates where this keymap was loaded from.
	Source string `json:"-" toml:"-" yaml:"-"`

	// Bindings are the overrides, applied in order.
	Bindings []Binding `json:"bindings" toml:"bindings" yaml:"bindings"`
}

// NewKeymap creates a new keymap with the given name.
func NewKeymap(name string) *Keymap {
	return &Keymap{
		Name:     name,
		Bindings: make([]Binding, 0),
	}
}

// WithSource sets the source for this keymap.
func (k *Keymap) WithSource(source string) *Keymap {
	k.Source = source
	return k
}

// Add binds keys to an action.
func (k *Keymap) Add(action string, keys ...string) *Keymap {
	if keys == nil {
		keys = []string{}
	}
	k.Bindings = append(k.Bindings, Binding{Action: action, Keys: keys})
	return k
}

// AddSequence binds a chord sequence to an action.
func (k *Keymap) AddSequence(action, sequence string) *Keymap {
	k.Bindings = append(k.Bindings, Binding{Action: action, Sequence: sequence})
	return k
}

// Validate checks that every binding names an action and that every key
// is well-formed.
func (k *Keymap) Validate() error {
	for i, b := range k.Bindings {
		if b.Action == "" {
			return fmt.Errorf("%w: binding %d: empty action", ErrInvalidBinding, i)
		}
		if b.Keys == nil && strings.TrimSpace(b.Sequence) == "" {
			return fmt.Errorf("%w: binding %d (%s): no keys or sequence", ErrInvalidBinding, i, b.Action)
		}
		for _, raw := range b.Keys {
			if err := key.Validate(raw); err != nil {
				return fmt.Errorf("%w: binding %d (%s): %w", ErrInvalidBinding, i, b.Action, err)
			}
		}
		for _, raw := range strings.Fields(b.Sequence) {
			if err := key.Validate(raw); err != nil {
				return fmt.Errorf("%w: binding %d (%s): %w", ErrInvalidBinding, i, b.Action, err)
			}
		}
	}
	return nil
}

// Merge returns a keymap holding k's bindings followed by other's.
func (k *Keymap) Merge(other *Keymap) *Keymap {
	merged := k.Clone()
	if other != nil {
		for _, b := range other.Bindings {
			merged.Bindings = append(merged.Bindings, b.clone())
		}
	}
	return merged
}

// Clone creates a deep copy of the keymap.
func (k *Keymap) Clone() *Keymap {
	clone := &Keymap{
		Name:     k.Name,
		Source:   k.Source,
		Bindings: make([]Binding, len(k.Bindings)),
	}
	for i, b := range k.Bindings {
		clone.Bindings[i] = b.clone()
	}
	return clone
}

func (b Binding) clone() Binding {
	if b.Keys != nil {
		b.Keys = append([]string{}, b.Keys...)
	}
	return b
}
