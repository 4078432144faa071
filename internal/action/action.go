package action

import (
	"sync/atomic"
	"time"

	"github.com/dshills/keycmd/internal/input/key"
)

// RunFunc executes an action. Long-running work should be started by the
// function itself; callers never wait on anything beyond the return.
type RunFunc func(scope Context, args ...any) error

// Action describes an executable operation.
//
// Actions are registered by pointer and must not be copied after
// registration.
type Action struct {
	// ID is the unique action identifier (e.g., "editor.save").
	ID string

	// GroupID is the optional action group this action belongs to.
	GroupID string

	// Label is the display name shown in the palette and menus.
	Label Value[string]

	// Description is the secondary label; it is searched along with Label.
	Description Value[string]

	// Icon is an opaque handle passed through to the rendering layer.
	Icon any

	// Precondition gates execution. Nil means always runnable.
	Precondition func(scope Context) bool

	// Keybindings are alternative single-chord shortcuts, stored normalized.
	Keybindings []string

	// KeySequence is a multi-chord shortcut ("Ctrl+K Ctrl+C"), stored normalized.
	KeySequence key.Sequence

	// ContextMenuGroupID places the action in the context menu.
	// Empty means the action is not shown there.
	ContextMenuGroupID string

	// ContextMenuOrder sorts actions within their context menu group.
	ContextMenuOrder int

	// Run executes the action.
	Run RunFunc

	// Selected marks a toggled/checked action.
	Selected Value[bool]

	// Disabled marks an action that is shown but cannot be chosen.
	Disabled Value[bool]

	// Visible hides the action when it resolves to false. Unset means visible.
	Visible Value[bool]

	// lastSelected is the unix-nano time of the last stamped execution.
	lastSelected atomic.Int64
}

// ResolveLabel returns the label for the given context.
func (a *Action) ResolveLabel(scope Context, args ...any) string {
	return a.Label.Resolve(scope, args...)
}

// ResolveDescription returns the description for the given context.
func (a *Action) ResolveDescription(scope Context, args ...any) string {
	return a.Description.Resolve(scope, args...)
}

// CanRun evaluates the precondition.
func (a *Action) CanRun(scope Context) bool {
	return a.Precondition == nil || a.Precondition(scope)
}

// IsVisible reports whether the action should be listed.
func (a *Action) IsVisible(scope Context) bool {
	return a.Visible.ResolveOr(true, scope)
}

// IsDisabled reports whether the action is shown but not selectable.
func (a *Action) IsDisabled(scope Context) bool {
	return a.Disabled.Resolve(scope)
}

// IsSelected reports whether the action is toggled on.
func (a *Action) IsSelected(scope Context) bool {
	return a.Selected.Resolve(scope)
}

// LastSelected returns when the action was last executed outside the
// context menu. The second value is false if it never was.
func (a *Action) LastSelected() (time.Time, bool) {
	ns := a.lastSelected.Load()
	if ns == 0 {
		return time.Time{}, false
	}
	return time.Unix(0, ns), true
}

// stamp records an execution time. Stamps never move backwards.
func (a *Action) stamp(now time.Time) {
	ns := now.UnixNano()
	for {
		prev := a.lastSelected.Load()
		if ns <= prev {
			return
		}
		if a.lastSelected.CompareAndSwap(prev, ns) {
			return
		}
	}
}

// sequences returns the key sequences that trigger the action: the
// KeySequence if set, otherwise each keybinding as a one-chord sequence.
func (a *Action) sequences() []key.Sequence {
	if len(a.KeySequence) > 0 {
		return []key.Sequence{a.KeySequence.Clone()}
	}
	seqs := make([]key.Sequence, 0, len(a.Keybindings))
	for _, b := range a.Keybindings {
		seqs = append(seqs, key.Sequence{b})
	}
	return seqs
}
