package dispatcher

import (
	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/key"
)

// PreDispatchHook is called after a sequence matched and before the action
// executes. Returning false cancels the execution; the key press is still
// consumed and the sequence is still reset.
type PreDispatchHook interface {
	PreDispatch(a *action.Action, seq key.Sequence, scope action.Context) bool
}

// PostDispatchHook is called after a matched action was executed or
// cancelled. err is the action's Run error or ErrActionCancelled.
type PostDispatchHook interface {
	PostDispatch(a *action.Action, seq key.Sequence, scope action.Context, err error)
}

// PreDispatchFunc is a function adapter for PreDispatchHook.
type PreDispatchFunc func(a *action.Action, seq key.Sequence, scope action.Context) bool

// PreDispatch implements PreDispatchHook.
func (f PreDispatchFunc) PreDispatch(a *action.Action, seq key.Sequence, scope action.Context) bool {
	return f(a, seq, scope)
}

// PostDispatchFunc is a function adapter for PostDispatchHook.
type PostDispatchFunc func(a *action.Action, seq key.Sequence, scope action.Context, err error)

// PostDispatch implements PostDispatchHook.
func (f PostDispatchFunc) PostDispatch(a *action.Action, seq key.Sequence, scope action.Context, err error) {
	f(a, seq, scope, err)
}

// AddPreHook adds a pre-dispatch hook.
func (d *Dispatcher) AddPreHook(h PreDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.preHooks = append(d.preHooks, h)
}

// AddPostHook adds a post-dispatch hook.
func (d *Dispatcher) AddPostHook(h PostDispatchHook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.postHooks = append(d.postHooks, h)
}

// runPreHooks reports whether every pre-hook allowed the execution.
func runPreHooks(hooks []PreDispatchHook, a *action.Action, seq key.Sequence, scope action.Context) bool {
	for _, h := range hooks {
		if !h.PreDispatch(a, seq, scope) {
			return false
		}
	}
	return true
}

func runPostHooks(hooks []PostDispatchHook, a *action.Action, seq key.Sequence, scope action.Context, err error) {
	for _, h := range hooks {
		h.PostDispatch(a, seq, scope, err)
	}
}
