package palette

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/logging"
	"github.com/dshills/keycmd/internal/schedule"
)

// State is a snapshot of a session's observable state.
type State struct {
	// ID identifies the current open session; empty when closed.
	ID string

	Open       bool
	SearchText string

	// Query is SearchText without the selected group's prefix.
	Query string

	// Group is the selected group, or nil while the group picker is shown.
	Group *action.Group

	// Groups lists the group picker rows; only set while Group is nil.
	Groups []*action.Group

	// Actions lists the filtered action rows of Group.
	Actions []*action.Action

	// SelectedIndex is the selected row, or -1.
	SelectedIndex int

	// Loading is true while a fetch for the current query is outstanding.
	Loading bool

	// Err is the last fetch error for the current group.
	Err error
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session configuration.
func WithConfig(c Config) Option {
	return func(s *Session) {
		s.config = c
	}
}

// WithScheduler sets the scheduler that drives the fetch debounce.
func WithScheduler(sched schedule.Scheduler) Option {
	return func(s *Session) {
		if sched != nil {
			s.sched = sched
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithScope sets the supplier of the context value passed to every label,
// precondition, state and run evaluation.
func WithScope(fn func() action.Context) Option {
	return func(s *Session) {
		if fn != nil {
			s.scope = fn
		}
	}
}

// Session is a command palette session bound to a registry.
// A Session can be opened and closed repeatedly.
type Session struct {
	mu sync.Mutex

	registry *action.Registry
	config   Config
	sched    schedule.Scheduler
	debounce *schedule.Timer
	logger   *logging.Logger
	scope    func() action.Context

	id     string
	open   bool
	ctx    context.Context
	cancel context.CancelFunc

	searchText string
	group      *action.Group
	groups     []*action.Group
	cache      []*action.Action
	cached     bool
	filtered   []*action.Action
	selected   int
	loading    bool
	err        error

	// generation identifies the latest query; fetches started for an older
	// generation are discarded.
	generation uint64
	// version changes whenever the row list changes.
	version uint64

	onChange []func(State)
}

// New creates a closed session bound to reg.
func New(reg *action.Registry, opts ...Option) *Session {
	s := &Session{
		registry: reg,
		config:   DefaultConfig(),
		sched:    schedule.System(),
		logger:   logging.Nop(),
		scope:    func() action.Context { return nil },
		selected: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.PageSize <= 0 {
		s.config.PageSize = DefaultPageSize
	}
	s.logger = s.logger.WithComponent("palette")
	s.debounce = schedule.NewTimer(s.sched)
	return s
}

// Open starts a new session with the given search text. Opening an already
// open session restarts it.
func (s *Session) Open(text string) {
	s.mu.Lock()
	if s.open {
		s.closeLocked()
	}
	s.id = uuid.NewString()
	s.open = true
	s.ctx, s.cancel = context.WithCancel(context.Background())
	id := s.id
	s.mu.Unlock()

	s.logger.Debug("session opened", "session", id)
	s.SetSearchText(text)
}

// Close ends the session, clearing search text, group, rows, selection and
// cache. Pending fetches are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	id := s.id
	s.closeLocked()
	s.mu.Unlock()

	s.logger.Debug("session closed", "session", id)
	s.notify()
}

// IsOpen reports whether the session is open.
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// ID returns the current session id, or "" when closed.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns a snapshot of the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// OnChange registers a callback invoked with the new state after every
// change.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = append(s.onChange, fn)
}

// SetSearchText updates the search input.
//
// The group whose prefix is the longest case-insensitive leading substring
// of text becomes the selected group; with none, the group picker is shown.
// Entering a different group calls its OnOpen hook and refetches.
func (s *Session) SetSearchText(text string) {
	g := s.detectGroup(text)

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.searchText = text
	switched := g != s.group
	if switched {
		s.setGroupLocked(g)
	}
	id := s.id
	s.mu.Unlock()

	if switched && g != nil {
		s.logger.Debug("group detected", "session", id, "group", g.ID)
		if g.OnOpen != nil {
			g.OnOpen(s.scope())
		}
	}
	s.refresh()
}

// SelectGroup switches into a group explicitly. The text typed after the
// previous group's prefix is kept after the new prefix.
func (s *Session) SelectGroup(id string) error {
	g := s.registry.GetActionGroup(id)
	if g == nil {
		return fmt.Errorf("select %q: %w", id, action.ErrGroupNotFound)
	}
	scope := s.scope()
	if g.IsDisabled(scope) {
		return fmt.Errorf("select %q: %w", id, ErrGroupDisabled)
	}

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrNotOpen
	}
	s.searchText = g.Prefix + s.queryLocked()
	s.setGroupLocked(g)
	sid := s.id
	s.mu.Unlock()

	s.logger.Debug("group selected", "session", sid, "group", g.ID)
	if g.OnOpen != nil {
		g.OnOpen(scope)
	}
	s.refresh()
	return nil
}

// SelectIndex selects a row directly, as a pointer click would.
// It reports whether i names a row.
func (s *Session) SelectIndex(i int) bool {
	s.mu.Lock()
	if !s.open || i < 0 || i >= s.rowCountLocked() {
		s.mu.Unlock()
		return false
	}
	s.selected = i
	s.mu.Unlock()

	s.notify()
	return true
}

// Execute activates the selected row. An action row is executed through the
// registry after the session closes; a group picker row switches into that
// group. Disabled rows are ignored.
func (s *Session) Execute() error {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return ErrNotOpen
	}
	var a *action.Action
	var picked *action.Group
	idx := s.selected
	if s.group == nil {
		if idx >= 0 && idx < len(s.groups) {
			picked = s.groups[idx]
		}
	} else if idx >= 0 && idx < len(s.filtered) {
		a = s.filtered[idx]
	}
	s.mu.Unlock()

	scope := s.scope()
	switch {
	case picked != nil:
		if picked.IsDisabled(scope) {
			return nil
		}
		return s.SelectGroup(picked.ID)
	case a != nil:
		if a.IsDisabled(scope) {
			return nil
		}
		s.Close()
		return s.registry.ExecuteAction(a, scope)
	}
	return nil
}

// Cancel dismisses the session, calling the selected group's OnCancel hook.
func (s *Session) Cancel() {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	g := s.group
	s.mu.Unlock()

	if g != nil && g.OnCancel != nil {
		g.OnCancel(s.scope())
	}
	s.Close()
}

// HandleKey processes a key press while the session has focus and reports
// whether it was consumed. The error is the executed action's Run error.
func (s *Session) HandleKey(ev key.Event) (bool, error) {
	s.mu.Lock()
	open, g := s.open, s.group
	s.mu.Unlock()
	if !open {
		return false, nil
	}

	if g != nil {
		scope := s.scope()
		for _, opt := range g.Options {
			if opt.Keybinding == "" || opt.Disabled.Resolve(scope) {
				continue
			}
			if key.IsMatch(opt.Keybinding, ev) {
				if opt.Run != nil {
					opt.Run(scope)
				}
				s.notify()
				return true, nil
			}
		}
	}

	switch {
	case ev.Is("ArrowDown"):
		s.navigate(1, 1, true)
	case ev.Is("ArrowUp"):
		s.navigate(-1, 1, true)
	case ev.Is("PageDown"):
		s.navigate(1, s.config.PageSize, false)
	case ev.Is("PageUp"):
		s.navigate(-1, s.config.PageSize, false)
	case ev.Is("Enter"):
		return true, s.Execute()
	case ev.Is("Escape"):
		s.Cancel()
	default:
		return false, nil
	}
	return true, nil
}

// navigate moves the selection over the actionable rows.
func (s *Session) navigate(dir, steps int, wrap bool) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	version, cur := s.version, s.selected
	groups, actions := s.groups, s.filtered
	picker := s.group == nil
	s.mu.Unlock()

	scope := s.scope()
	var enabled []bool
	if picker {
		enabled = groupFlags(groups, scope)
	} else {
		enabled = actionFlags(actions, scope)
	}
	next := nextIndex(enabled, cur, dir, steps, wrap)

	s.mu.Lock()
	if version != s.version || next == s.selected {
		s.mu.Unlock()
		return
	}
	s.selected = next
	s.mu.Unlock()
	s.notify()
}

// refresh rebuilds the rows after the search text or group changed.
func (s *Session) refresh() {
	scope := s.scope()

	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen, g := s.generation, s.group
	query, ctx := s.queryLocked(), s.ctx
	cache, cached := s.cache, s.cached

	if g != nil && g.Mode == action.ModeFilter {
		s.loading = true
		s.debounce.Reset(s.config.DebounceDelay, func() {
			s.fetch(gen, g, query)
		})
		s.mu.Unlock()
		s.notify()
		return
	}
	s.debounce.Stop()
	s.mu.Unlock()

	if g == nil {
		groups := s.registry.ActionGroups()
		enabled := groupFlags(groups, scope)

		s.mu.Lock()
		if s.currentLocked(gen, g) {
			s.groups = groups
			s.filtered = nil
			s.loading = false
			s.selected = firstEnabled(enabled)
			s.version++
		}
		s.mu.Unlock()
		s.notify()
		return
	}

	var err error
	if !cached {
		cache, err = s.registry.FetchGroup(ctx, g, scope, "")
		if err != nil {
			s.logger.Warn("fetch failed", "group", g.ID, "error", err)
		}
	}
	filtered := Filter(cache, query, scope)
	enabled := actionFlags(filtered, scope)

	s.mu.Lock()
	if s.currentLocked(gen, g) {
		if !cached {
			s.cache, s.cached = cache, err == nil
		}
		s.err = err
		s.filtered = filtered
		s.loading = false
		s.selected = firstEnabled(enabled)
		s.version++
	}
	s.mu.Unlock()
	s.notify()
}

// fetch is the debounced query of a "filter"-mode group.
func (s *Session) fetch(gen uint64, g *action.Group, query string) {
	s.mu.Lock()
	if !s.currentLocked(gen, g) {
		s.mu.Unlock()
		return
	}
	ctx, id := s.ctx, s.id
	s.mu.Unlock()

	scope := s.scope()
	actions, err := s.registry.FetchGroup(ctx, g, scope, query)
	visible := Filter(actions, "", scope)
	enabled := actionFlags(visible, scope)

	s.mu.Lock()
	if !s.currentLocked(gen, g) {
		s.mu.Unlock()
		s.logger.Debug("stale fetch dropped", "session", id, "group", g.ID, "query", query)
		return
	}
	s.err = err
	s.filtered = visible
	s.loading = false
	s.selected = firstEnabled(enabled)
	s.version++
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("fetch failed", "session", id, "group", g.ID, "error", err)
	}
	s.notify()
}

// detectGroup returns the enabled group with the longest prefix that text
// starts with, compared case-insensitively. Ties go to the first registered.
func (s *Session) detectGroup(text string) *action.Group {
	scope := s.scope()
	var best *action.Group
	for _, g := range s.registry.ActionGroups() {
		p := g.Prefix
		if len(p) > len(text) || !strings.EqualFold(text[:len(p)], p) {
			continue
		}
		if best != nil && len(p) <= len(best.Prefix) {
			continue
		}
		if g.IsDisabled(scope) {
			continue
		}
		best = g
	}
	return best
}

func (s *Session) setGroupLocked(g *action.Group) {
	s.group = g
	s.groups = nil
	s.cache, s.cached = nil, false
	s.filtered = nil
	s.selected = -1
	s.err = nil
	s.debounce.Stop()
	s.version++
}

func (s *Session) closeLocked() {
	if s.cancel != nil {
		s.cancel()
	}
	s.debounce.Stop()
	s.id = ""
	s.open = false
	s.ctx, s.cancel = nil, nil
	s.searchText = ""
	s.group = nil
	s.groups = nil
	s.cache, s.cached = nil, false
	s.filtered = nil
	s.selected = -1
	s.loading = false
	s.err = nil
	s.generation++
	s.version++
}

// currentLocked reports whether a result computed for gen and g still
// applies.
func (s *Session) currentLocked(gen uint64, g *action.Group) bool {
	return s.open && s.generation == gen && s.group == g
}

// queryLocked returns the search text after the selected group's prefix.
func (s *Session) queryLocked() string {
	if s.group == nil {
		return s.searchText
	}
	if n := len(s.group.Prefix); n <= len(s.searchText) {
		return s.searchText[n:]
	}
	return ""
}

func (s *Session) rowCountLocked() int {
	if s.group == nil {
		return len(s.groups)
	}
	return len(s.filtered)
}

func (s *Session) stateLocked() State {
	st := State{
		ID:            s.id,
		Open:          s.open,
		SearchText:    s.searchText,
		Group:         s.group,
		SelectedIndex: s.selected,
		Loading:       s.loading,
		Err:           s.err,
	}
	if s.open {
		st.Query = s.queryLocked()
	}
	if s.group == nil {
		st.Groups = append([]*action.Group(nil), s.groups...)
	} else {
		st.Actions = append([]*action.Action(nil), s.filtered...)
	}
	return st
}

// notify calls all registered change callbacks.
// Callbacks are invoked without holding locks to prevent deadlocks.
func (s *Session) notify() {
	s.mu.Lock()
	st := s.stateLocked()
	callbacks := make([]func(State), len(s.onChange))
	copy(callbacks, s.onChange)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(st)
	}
}
