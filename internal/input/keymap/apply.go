package keymap

import (
	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/key"
)

// Applied records the effect of applying a keymap.
type Applied struct {
	// Actions lists the rebound action ids, in first-binding order.
	Actions []string

	// Unknown lists binding action ids that are not registered.
	Unknown []string

	previous map[string]saved
}

type saved struct {
	keys     []string
	sequence key.Sequence
}

// Apply rebinds the registry's actions according to km.
// Bindings for unregistered actions are reported in Applied.Unknown and
// otherwise ignored.
func Apply(reg *action.Registry, km *Keymap) *Applied {
	res := &Applied{previous: make(map[string]saved)}
	if km == nil {
		return res
	}

	for _, b := range km.Bindings {
		if reg.GetAction(b.Action) == nil {
			res.Unknown = append(res.Unknown, b.Action)
			continue
		}
		if _, seen := res.previous[b.Action]; !seen {
			res.previous[b.Action] = saved{
				keys:     reg.Keybindings(b.Action),
				sequence: reg.KeySequence(b.Action),
			}
			res.Actions = append(res.Actions, b.Action)
		}
		// The action exists; a concurrent unregister is the only failure.
		seq := key.ParseSequence(b.Sequence)
		if b.Keys != nil {
			_ = reg.SetKeybindings(b.Action, b.Keys...)
			if len(seq) == 0 {
				// A sequence shadows keybindings when matching.
				_ = reg.SetKeySequence(b.Action, nil)
			}
		}
		if len(seq) > 0 {
			_ = reg.SetKeySequence(b.Action, seq)
		}
	}
	return res
}

// Revert restores the shortcuts the rebound actions had before Apply.
// Actions unregistered since are skipped.
func (a *Applied) Revert(reg *action.Registry) {
	for i := len(a.Actions) - 1; i >= 0; i-- {
		id := a.Actions[i]
		prev := a.previous[id]
		if err := reg.SetKeybindings(id, prev.keys...); err != nil {
			continue
		}
		_ = reg.SetKeySequence(id, prev.sequence)
	}
}
