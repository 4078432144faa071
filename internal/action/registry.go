package action

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/logging"
)

// Registry stores actions and action groups and executes actions.
//
// Thread Safety:
// Registry is safe for concurrent use. Group Actions functions and action
// Run functions are called without holding the registry lock.
type Registry struct {
	mu sync.RWMutex

	actions     map[string]*Action
	actionOrder []string

	groups     map[string]*Group
	groupOrder []string

	now    func() time.Time
	logger *logging.Logger

	// onChange callbacks are called when actions or groups are added/removed.
	onChange []func()
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the time source used to stamp executions.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a registry with the built-in default group installed.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		actions: make(map[string]*Action),
		groups:  make(map[string]*Group),
		now:     time.Now,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("action")

	r.RegisterActionGroup(&Group{
		ID:     DefaultGroupID,
		Prefix: DefaultPrefix,
		Label:  Text("Commands"),
		Mode:   ModeActions,
		Actions: func(_ context.Context, _ Context, _ string) ([]*Action, error) {
			return r.Actions(), nil
		},
	})
	return r
}

// RegisterAction adds actions to the registry. Keybindings and key
// sequences are normalized in place. An action whose id is already
// registered is ignored; the first registration wins.
func (r *Registry) RegisterAction(actions ...*Action) {
	added := 0

	r.mu.Lock()
	for _, a := range actions {
		if a == nil || a.ID == "" {
			r.logger.Warn("ignoring action without id")
			continue
		}
		if _, exists := r.actions[a.ID]; exists {
			r.logger.Debug("duplicate action ignored", "id", a.ID)
			continue
		}
		key.NormalizeAll(a.Keybindings)
		for i, b := range a.KeySequence {
			a.KeySequence[i] = key.Normalize(b)
		}
		r.actions[a.ID] = a
		r.actionOrder = append(r.actionOrder, a.ID)
		added++
	}
	r.mu.Unlock()

	if added > 0 {
		r.notifyChange()
	}
}

// RegisterActionGroup adds groups to the registry. A group whose id is
// already registered is ignored. Prefix uniqueness is not checked.
// Option keybindings are normalized in place.
func (r *Registry) RegisterActionGroup(groups ...*Group) {
	added := 0

	r.mu.Lock()
	for _, g := range groups {
		if g == nil || g.ID == "" {
			r.logger.Warn("ignoring group without id")
			continue
		}
		if _, exists := r.groups[g.ID]; exists {
			r.logger.Debug("duplicate group ignored", "id", g.ID)
			continue
		}
		if g.Mode == "" {
			g.Mode = ModeActions
		}
		for i := range g.Options {
			g.Options[i].Keybinding = key.Normalize(g.Options[i].Keybinding)
		}
		r.groups[g.ID] = g
		r.groupOrder = append(r.groupOrder, g.ID)
		added++
	}
	r.mu.Unlock()

	if added > 0 {
		r.notifyChange()
	}
}

// GetAction returns the action with the given id, or nil.
func (r *Registry) GetAction(id string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[id]
}

// GetActionGroup returns the group with the given id, or nil.
func (r *Registry) GetActionGroup(id string) *Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.groups[id]
}

// UnregisterAction removes an action. It fails if id was never registered.
func (r *Registry) UnregisterAction(id string) error {
	r.mu.Lock()
	if _, exists := r.actions[id]; !exists {
		r.mu.Unlock()
		return fmt.Errorf("unregister %q: %w", id, ErrActionNotFound)
	}
	delete(r.actions, id)
	r.actionOrder = removeID(r.actionOrder, id)
	r.mu.Unlock()

	r.notifyChange()
	return nil
}

// UnregisterActionGroup removes a group. The default group cannot be removed.
func (r *Registry) UnregisterActionGroup(id string) error {
	if id == DefaultGroupID {
		return ErrDefaultGroup
	}

	r.mu.Lock()
	if _, exists := r.groups[id]; !exists {
		r.mu.Unlock()
		return fmt.Errorf("unregister group %q: %w", id, ErrGroupNotFound)
	}
	delete(r.groups, id)
	r.groupOrder = removeID(r.groupOrder, id)
	r.mu.Unlock()

	r.notifyChange()
	return nil
}

// Actions returns all registered actions in registration order.
func (r *Registry) Actions() []*Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Action, 0, len(r.actionOrder))
	for _, id := range r.actionOrder {
		result = append(result, r.actions[id])
	}
	return result
}

// ActionGroups returns all registered groups in registration order.
func (r *Registry) ActionGroups() []*Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Group, 0, len(r.groupOrder))
	for _, id := range r.groupOrder {
		result = append(result, r.groups[id])
	}
	return result
}

// ActionCount returns the number of registered actions.
func (r *Registry) ActionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// GroupByPrefix returns the first registered group whose prefix equals
// prefix exactly, or nil.
func (r *Registry) GroupByPrefix(prefix string) *Group {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.groupOrder {
		if g := r.groups[id]; g.Prefix == prefix {
			return g
		}
	}
	return nil
}

// GetRegisteredActions returns the actions of the group addressed by prefix.
//
// An empty prefix is the explicit "no group" signal and yields an empty list,
// as does a prefix no group uses. The default group's list is ranked by most
// recent execution; every other group's list is returned in the order its
// Actions function produced it.
func (r *Registry) GetRegisteredActions(ctx context.Context, prefix string, scope Context, query string) ([]*Action, error) {
	if prefix == "" {
		return nil, nil
	}
	g := r.GroupByPrefix(prefix)
	if g == nil {
		return nil, nil
	}
	return r.FetchGroup(ctx, g, scope, query)
}

// FetchGroup produces a group's actions, applying the default group's
// recency ranking.
func (r *Registry) FetchGroup(ctx context.Context, g *Group, scope Context, query string) ([]*Action, error) {
	actions, err := g.Fetch(ctx, scope, query)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", g.ID, err)
	}
	if g.ID == DefaultGroupID && g.Mode == ModeActions {
		actions = append([]*Action(nil), actions...)
		SortByRecency(actions, scope)
	}
	return actions, nil
}

// ExecuteByID resolves and executes an action. An unknown id is logged and
// ignored.
func (r *Registry) ExecuteByID(id string, scope Context, args ...any) error {
	a := r.GetAction(id)
	if a == nil {
		r.logger.Error("cannot execute unregistered action", "id", id)
		return nil
	}
	return r.execute(a, scope, true, args...)
}

// ExecuteAction executes an action if its precondition holds.
//
// Unless the action belongs to the command palette context menu group, its
// last-selected time is stamped before Run is called, so a failing Run still
// affects ranking. Run's error is returned unchanged.
func (r *Registry) ExecuteAction(a *Action, scope Context, args ...any) error {
	if a == nil {
		r.logger.Error("cannot execute nil action")
		return nil
	}
	return r.execute(a, scope, true, args...)
}

// ExecuteFromContextMenu executes an action invoked from a context menu.
// Context menu invocations never update the action's recency.
func (r *Registry) ExecuteFromContextMenu(a *Action, scope Context, args ...any) error {
	if a == nil {
		return nil
	}
	return r.execute(a, scope, false, args...)
}

func (r *Registry) execute(a *Action, scope Context, stamp bool, args ...any) error {
	if !a.CanRun(scope) {
		r.logger.Debug("precondition not met", "id", a.ID)
		return nil
	}
	if stamp && a.ContextMenuGroupID != MenuGroupCommandPalette {
		a.stamp(r.now())
	}
	if a.Run == nil {
		return nil
	}
	return a.Run(scope, args...)
}

// Binding pairs an action with one key sequence that triggers it.
type Binding struct {
	Action   *Action
	Sequence key.Sequence
}

// Bindings returns every key sequence bound to a registered action, in
// registration order. An action with a KeySequence contributes that sequence;
// otherwise each of its keybindings contributes a one-chord sequence.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Binding
	for _, id := range r.actionOrder {
		a := r.actions[id]
		for _, seq := range a.sequences() {
			result = append(result, Binding{Action: a, Sequence: seq})
		}
	}
	return result
}

// Keybindings returns a copy of an action's keybindings.
func (r *Registry) Keybindings(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a := r.actions[id]
	if a == nil {
		return nil
	}
	return append([]string(nil), a.Keybindings...)
}

// KeySequence returns a copy of an action's key sequence.
func (r *Registry) KeySequence(id string) key.Sequence {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a := r.actions[id]
	if a == nil {
		return nil
	}
	return a.KeySequence.Clone()
}

// SetKeybindings replaces an action's keybindings.
func (r *Registry) SetKeybindings(id string, bindings ...string) error {
	r.mu.Lock()
	a := r.actions[id]
	if a == nil {
		r.mu.Unlock()
		return fmt.Errorf("set keybindings %q: %w", id, ErrActionNotFound)
	}
	a.Keybindings = key.NormalizeAll(append([]string(nil), bindings...))
	r.mu.Unlock()

	r.notifyChange()
	return nil
}

// SetKeySequence replaces an action's key sequence. An empty sequence
// removes it.
func (r *Registry) SetKeySequence(id string, seq key.Sequence) error {
	r.mu.Lock()
	a := r.actions[id]
	if a == nil {
		r.mu.Unlock()
		return fmt.Errorf("set key sequence %q: %w", id, ErrActionNotFound)
	}
	a.KeySequence = key.NewSequence(seq...)
	r.mu.Unlock()

	r.notifyChange()
	return nil
}

// OnChange registers a callback for registry changes.
// Callbacks are invoked after registration, unregistration and rebinding.
// Callbacks must not register or unregister from within the callback.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// notifyChange calls all registered change callbacks.
// Callbacks are invoked without holding locks to prevent deadlocks.
func (r *Registry) notifyChange() {
	r.mu.RLock()
	callbacks := make([]func(), len(r.onChange))
	copy(callbacks, r.onChange)
	r.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}

func removeID(ids []string, id string) []string {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
