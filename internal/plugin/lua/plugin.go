package lua

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/input/palette"
	"github.com/dshills/keycmd/internal/logging"
)

// ModuleName is the name scripts use to reach the action API.
const ModuleName = "keycmd"

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the plugin logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithStateOptions passes options through to the underlying State.
func WithStateOptions(opts ...StateOption) Option {
	return func(p *Plugin) {
		p.stateOpts = append(p.stateOpts, opts...)
	}
}

// Plugin is a loaded Lua script and the actions and groups it declared.
type Plugin struct {
	name      string
	state     *State
	logger    *logging.Logger
	stateOpts []StateOption

	mu      sync.Mutex
	actions []*action.Action
	groups  []*action.Group
}

// Load runs the script at path and collects its declarations.
func Load(path string, opts ...Option) (*Plugin, error) {
	p := newPlugin(filepath.Base(path), opts...)
	if err := p.state.DoFile(path); err != nil {
		_ = p.state.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	p.logLoaded()
	return p, nil
}

// LoadString runs source under the given name and collects its declarations.
func LoadString(name, source string, opts ...Option) (*Plugin, error) {
	p := newPlugin(name, opts...)
	if err := p.state.DoString(source); err != nil {
		_ = p.state.Close()
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	p.logLoaded()
	return p, nil
}

func newPlugin(name string, opts ...Option) *Plugin {
	p := &Plugin{
		name:   name,
		logger: logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.WithComponent("lua").With("plugin", name)
	p.state = NewState(p.stateOpts...)
	p.state.PreloadModule(ModuleName, p.module)
	return p
}

func (p *Plugin) logLoaded() {
	p.mu.Lock()
	actions, groups := len(p.actions), len(p.groups)
	p.mu.Unlock()
	p.logger.Info("lua plugin loaded", "actions", actions, "groups", groups)
}

// Name returns the plugin name.
func (p *Plugin) Name() string { return p.name }

// Actions returns the actions declared with keycmd.action, in order.
func (p *Plugin) Actions() []*action.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*action.Action, len(p.actions))
	copy(out, p.actions)
	return out
}

// Groups returns the groups declared with keycmd.group, in order.
func (p *Plugin) Groups() []*action.Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*action.Group, len(p.groups))
	copy(out, p.groups)
	return out
}

// Register adds the plugin's groups and actions to r. Groups go first so
// grouped actions find their group already present.
func (p *Plugin) Register(r *action.Registry) {
	r.RegisterActionGroup(p.Groups()...)
	r.RegisterAction(p.Actions()...)
}

// Close releases the Lua state. Actions from a closed plugin return
// ErrStateClosed when run.
func (p *Plugin) Close() error {
	return p.state.Close()
}

// module builds the keycmd table.
func (p *Plugin) module(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"action": p.luaAction,
		"group":  p.luaGroup,
	})
	L.Push(mod)
	return 1
}

// luaAction implements keycmd.action{...}.
func (p *Plugin) luaAction(L *lua.LState) int {
	a, err := p.toAction(NewBridge(L), L.CheckTable(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	p.mu.Lock()
	p.actions = append(p.actions, a)
	p.mu.Unlock()
	return 0
}

// luaGroup implements keycmd.group{...}.
func (p *Plugin) luaGroup(L *lua.LState) int {
	b := NewBridge(L)
	t := L.CheckTable(1)

	id, _ := b.GetTableString(t, "id")
	prefix, _ := b.GetTableString(t, "prefix")
	if id == "" || prefix == "" {
		L.RaiseError("%s: keycmd.group requires id and prefix", ErrInvalidDefinition)
		return 0
	}

	g := &action.Group{
		ID:     id,
		Prefix: prefix,
		Label:  action.Text(id),
		Mode:   action.ModeActions,
	}
	if label, ok := b.GetTableString(t, "label"); ok {
		g.Label = action.Text(label)
	}
	if desc, ok := b.GetTableString(t, "description"); ok {
		g.Description = action.Text(desc)
	}
	if mode, ok := b.GetTableString(t, "mode"); ok && action.Mode(mode) == action.ModeFilter {
		g.Mode = action.ModeFilter
	}
	if disabled, ok := b.GetTableBool(t, "disabled"); ok {
		g.Disabled = action.Bool(disabled)
	}
	fn, hasFn := b.GetTableFunc(t, "actions")
	switch {
	case hasFn:
		g.Actions = p.fetcher(id, fn)
	case g.Mode == action.ModeFilter:
		g.Actions = palette.FuzzySource(p.memberList(id))
	default:
		g.Actions = p.members(id)
	}

	p.mu.Lock()
	p.groups = append(p.groups, g)
	p.mu.Unlock()
	return 0
}

// memberList lists the plugin's actions that name the group.
func (p *Plugin) memberList(groupID string) func(action.Context) []*action.Action {
	return func(_ action.Context) []*action.Action {
		var out []*action.Action
		for _, a := range p.Actions() {
			if a.GroupID == groupID {
				out = append(out, a)
			}
		}
		return out
	}
}

func (p *Plugin) members(groupID string) action.ActionsFunc {
	list := p.memberList(groupID)
	return func(_ context.Context, scope action.Context, _ string) ([]*action.Action, error) {
		return list(scope), nil
	}
}

// fetcher calls a Lua actions function with the query and converts the
// returned list of tables into actions.
func (p *Plugin) fetcher(groupID string, fn *lua.LFunction) action.ActionsFunc {
	return func(ctx context.Context, _ action.Context, query string) ([]*action.Action, error) {
		var out []*action.Action
		err := p.state.do(ctx, func(L *lua.LState) error {
			top := L.GetTop()
			L.Push(fn)
			L.Push(lua.LString(query))
			if err := L.PCall(1, 1, nil); err != nil {
				return err
			}
			ret := L.Get(-1)
			L.SetTop(top)

			list, ok := ret.(*lua.LTable)
			if !ok {
				return nil
			}
			b := NewBridge(L)
			for i := 1; i <= list.Len(); i++ {
				t, ok := list.RawGetInt(i).(*lua.LTable)
				if !ok {
					continue
				}
				a, err := p.toAction(b, t)
				if err != nil {
					return err
				}
				if a.GroupID == "" {
					a.GroupID = groupID
				}
				out = append(out, a)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("lua group %q: %w", groupID, err)
		}
		return out, nil
	}
}

// toAction converts an action table. The caller holds the state lock.
func (p *Plugin) toAction(b *Bridge, t *lua.LTable) (*action.Action, error) {
	id, _ := b.GetTableString(t, "id")
	if id == "" {
		return nil, fmt.Errorf("%w: keycmd.action requires id", ErrInvalidDefinition)
	}

	a := &action.Action{
		ID:    id,
		Label: action.Text(id),
	}
	if label, ok := b.GetTableString(t, "label"); ok {
		a.Label = action.Text(label)
	}
	if desc, ok := b.GetTableString(t, "description"); ok {
		a.Description = action.Text(desc)
	}
	a.GroupID, _ = b.GetTableString(t, "group")
	a.ContextMenuGroupID, _ = b.GetTableString(t, "menu")
	a.ContextMenuOrder, _ = b.GetTableInt(t, "order")
	a.Keybindings = b.GetTableStrings(t, "keys")
	if seq, ok := b.GetTableString(t, "sequence"); ok {
		a.KeySequence = key.ParseSequence(seq)
	}
	if disabled, ok := b.GetTableBool(t, "disabled"); ok {
		a.Disabled = action.Bool(disabled)
	}
	if visible, ok := b.GetTableBool(t, "visible"); ok {
		a.Visible = action.Bool(visible)
	}
	if fn, ok := b.GetTableFunc(t, "run"); ok {
		a.Run = p.runner(id, fn)
	}
	return a, nil
}

// runner wraps a Lua run function. The scope is opaque to scripts and is
// not passed; args are converted with the bridge.
func (p *Plugin) runner(id string, fn *lua.LFunction) action.RunFunc {
	return func(_ action.Context, args ...any) error {
		if _, err := p.state.CallFunc(context.Background(), fn, args...); err != nil {
			return fmt.Errorf("lua action %q: %w", id, err)
		}
		return nil
	}
}
