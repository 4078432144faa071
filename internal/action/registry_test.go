package action

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/logging"
)

// testClock returns a clock that advances one second per call.
func testClock() func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func ids(actions []*Action) []string {
	result := make([]string, len(actions))
	for i, a := range actions {
		result[i] = a.ID
	}
	return result
}

func TestNewRegistryInstallsDefaultGroup(t *testing.T) {
	r := NewRegistry()

	g := r.GetActionGroup(DefaultGroupID)
	require.NotNil(t, g)
	assert.Equal(t, DefaultPrefix, g.Prefix)
	assert.Equal(t, ModeActions, g.Mode)
	assert.Same(t, g, r.GroupByPrefix(">"))

	assert.ErrorIs(t, r.UnregisterActionGroup(DefaultGroupID), ErrDefaultGroup)
	assert.NotNil(t, r.GetActionGroup(DefaultGroupID))
}

func TestRegisterActionFirstWins(t *testing.T) {
	r := NewRegistry()
	first := &Action{ID: "file.save", Label: Text("Save")}
	second := &Action{ID: "file.save", Label: Text("Save All")}

	r.RegisterAction(first, second)
	r.RegisterAction(&Action{ID: "file.save", Label: Text("Other")})

	got := r.GetAction("file.save")
	require.NotNil(t, got)
	assert.Same(t, first, got)
	assert.Equal(t, "Save", got.ResolveLabel(nil))
	assert.Equal(t, 1, r.ActionCount())
}

func TestRegisterActionNormalizesBindings(t *testing.T) {
	r := NewRegistry()
	a := &Action{
		ID:          "edit.comment",
		Keybindings: []string{"shift+ctrl+/", "cmd+k"},
		KeySequence: key.Sequence{"ctrl+k", "ctrl+c"},
	}
	r.RegisterAction(a)

	assert.Equal(t, []string{"Ctrl+Shift+/", "Meta+K"}, a.Keybindings)
	assert.Equal(t, key.Sequence{"Ctrl+K", "Ctrl+C"}, a.KeySequence)
}

func TestRegisterActionIgnoresEmptyID(t *testing.T) {
	r := NewRegistry()
	r.RegisterAction(nil, &Action{})
	assert.Zero(t, r.ActionCount())
}

func TestRegisterActionGroupFirstWins(t *testing.T) {
	r := NewRegistry()
	first := &Group{ID: "files", Prefix: "@"}
	r.RegisterActionGroup(first, &Group{ID: "files", Prefix: "#"})
	r.RegisterActionGroup(&Group{ID: DefaultGroupID, Prefix: "!"})

	assert.Same(t, first, r.GetActionGroup("files"))
	assert.Equal(t, ">", r.GetActionGroup(DefaultGroupID).Prefix)
	assert.Len(t, r.ActionGroups(), 2)
	assert.Equal(t, ModeActions, first.Mode)
}

func TestRegisterActionGroupNormalizesOptions(t *testing.T) {
	r := NewRegistry()
	g := &Group{ID: "search", Prefix: "/", Options: []GroupOption{{ID: "case", Keybinding: "alt+c"}}}
	r.RegisterActionGroup(g)
	assert.Equal(t, "Alt+C", g.Options[0].Keybinding)
}

func TestUnregisterAction(t *testing.T) {
	r := NewRegistry()
	r.RegisterAction(&Action{ID: "a"}, &Action{ID: "b"})

	require.NoError(t, r.UnregisterAction("a"))
	assert.Nil(t, r.GetAction("a"))
	assert.Equal(t, []string{"b"}, ids(r.Actions()))

	err := r.UnregisterAction("a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrActionNotFound))
	assert.Contains(t, err.Error(), `"a"`)
}

func TestUnregisterActionGroup(t *testing.T) {
	r := NewRegistry()
	r.RegisterActionGroup(&Group{ID: "files", Prefix: "@"})

	require.NoError(t, r.UnregisterActionGroup("files"))
	assert.Nil(t, r.GetActionGroup("files"))
	assert.ErrorIs(t, r.UnregisterActionGroup("files"), ErrGroupNotFound)
}

func TestExecuteActionStampsAndRuns(t *testing.T) {
	r := NewRegistry(WithClock(testClock()))
	var gotScope Context
	var gotArgs []any
	a := &Action{ID: "run", Run: func(scope Context, args ...any) error {
		gotScope = scope
		gotArgs = args
		return nil
	}}
	r.RegisterAction(a)

	require.NoError(t, r.ExecuteAction(a, "scope", 1, "two"))
	assert.Equal(t, "scope", gotScope)
	assert.Equal(t, []any{1, "two"}, gotArgs)

	_, ok := a.LastSelected()
	assert.True(t, ok)
}

func TestExecutePreconditionGating(t *testing.T) {
	r := NewRegistry(WithClock(testClock()))
	runs := 0
	a := &Action{
		ID:           "gated",
		Precondition: func(Context) bool { return false },
		Run: func(Context, ...any) error {
			runs++
			return nil
		},
	}
	r.RegisterAction(a)

	for i := 0; i < 5; i++ {
		require.NoError(t, r.ExecuteAction(a, nil))
		require.NoError(t, r.ExecuteByID("gated", nil))
	}

	assert.Zero(t, runs)
	_, ok := a.LastSelected()
	assert.False(t, ok)
}

func TestExecuteRunErrorStillStamps(t *testing.T) {
	r := NewRegistry(WithClock(testClock()))
	boom := errors.New("boom")
	a := &Action{ID: "fail", Run: func(Context, ...any) error { return boom }}
	r.RegisterAction(a)

	err := r.ExecuteByID("fail", nil)
	assert.Same(t, boom, err)
	_, ok := a.LastSelected()
	assert.True(t, ok)
}

func TestExecuteCommandPaletteGroupDoesNotStamp(t *testing.T) {
	r := NewRegistry(WithClock(testClock()))
	ran := false
	a := &Action{
		ID:                 "palette.show",
		ContextMenuGroupID: MenuGroupCommandPalette,
		Run: func(Context, ...any) error {
			ran = true
			return nil
		},
	}
	r.RegisterAction(a)

	require.NoError(t, r.ExecuteAction(a, nil))
	assert.True(t, ran)
	_, ok := a.LastSelected()
	assert.False(t, ok)
}

func TestExecuteFromContextMenuDoesNotStamp(t *testing.T) {
	r := NewRegistry(WithClock(testClock()))
	ran := false
	a := &Action{ID: "copy", ContextMenuGroupID: "edit", Run: func(Context, ...any) error {
		ran = true
		return nil
	}}
	r.RegisterAction(a)

	require.NoError(t, r.ExecuteFromContextMenu(a, nil))
	assert.True(t, ran)
	_, ok := a.LastSelected()
	assert.False(t, ok)
}

func TestExecuteByIDUnknownLogs(t *testing.T) {
	var buf bytes.Buffer
	cfg := logging.DefaultConfig()
	cfg.Output = &buf
	r := NewRegistry(WithLogger(logging.New(cfg)))

	assert.NoError(t, r.ExecuteByID("missing", nil))
	assert.Contains(t, buf.String(), "missing")
}

func TestStampIsMonotonic(t *testing.T) {
	a := &Action{ID: "a"}
	later := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	a.stamp(later)
	a.stamp(later.Add(-time.Hour))

	got, ok := a.LastSelected()
	require.True(t, ok)
	assert.True(t, got.Equal(later))
}

func TestGetRegisteredActionsDefaultGroupRanking(t *testing.T) {
	r := NewRegistry(WithClock(testClock()))
	a := &Action{ID: "A", Label: Text("Beta")}
	b := &Action{ID: "B", Label: Text("Alpha")}
	c := &Action{ID: "C", Label: Text("Gamma")}
	r.RegisterAction(a, b, c)

	require.NoError(t, r.ExecuteAction(b, nil))
	require.NoError(t, r.ExecuteAction(c, nil))

	got, err := r.GetRegisteredActions(context.Background(), ">", nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, ids(got))

	// Registration order is not disturbed by ranking.
	assert.Equal(t, []string{"A", "B", "C"}, ids(r.Actions()))
}

func TestGetRegisteredActionsLabelTieBreak(t *testing.T) {
	r := NewRegistry()
	r.RegisterAction(
		&Action{ID: "z", Label: Text("zeta")},
		&Action{ID: "d", Label: Computed(func(scope Context, _ ...any) string {
			return scope.(string)
		})},
		&Action{ID: "b", Label: Text("beta")},
	)

	got, err := r.GetRegisteredActions(context.Background(), ">", "alpha", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "b", "z"}, ids(got))
}

func TestGetRegisteredActionsOtherGroupsUnsorted(t *testing.T) {
	r := NewRegistry()
	listed := []*Action{
		{ID: "2", Label: Text("b")},
		{ID: "1", Label: Text("a")},
	}
	var gotQuery string
	r.RegisterActionGroup(&Group{
		ID:     "symbols",
		Prefix: "@",
		Mode:   ModeFilter,
		Actions: func(_ context.Context, _ Context, query string) ([]*Action, error) {
			gotQuery = query
			return listed, nil
		},
	})

	got, err := r.GetRegisteredActions(context.Background(), "@", nil, "foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(got))
	assert.Equal(t, "foo", gotQuery)
}

func TestGetRegisteredActionsNoGroup(t *testing.T) {
	r := NewRegistry()
	r.RegisterAction(&Action{ID: "a"})

	got, err := r.GetRegisteredActions(context.Background(), "", nil, "")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = r.GetRegisteredActions(context.Background(), "?", nil, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetRegisteredActionsFetchError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.RegisterActionGroup(&Group{ID: "bad", Prefix: "!", Actions: func(context.Context, Context, string) ([]*Action, error) {
		return nil, boom
	}})

	_, err := r.GetRegisteredActions(context.Background(), "!", nil, "")
	assert.ErrorIs(t, err, boom)
}

func TestBindings(t *testing.T) {
	r := NewRegistry()
	r.RegisterAction(
		&Action{ID: "save", Keybindings: []string{"ctrl+s", "cmd+s"}},
		&Action{ID: "comment", Keybindings: []string{"ctrl+/"}, KeySequence: key.Sequence{"ctrl+k", "ctrl+c"}},
		&Action{ID: "plain"},
	)

	bindings := r.Bindings()
	require.Len(t, bindings, 3)
	assert.Equal(t, "save", bindings[0].Action.ID)
	assert.Equal(t, key.Sequence{"Ctrl+S"}, bindings[0].Sequence)
	assert.Equal(t, key.Sequence{"Meta+S"}, bindings[1].Sequence)
	assert.Equal(t, "comment", bindings[2].Action.ID)
	assert.Equal(t, key.Sequence{"Ctrl+K", "Ctrl+C"}, bindings[2].Sequence)
}

func TestSetKeybindingsAndSequence(t *testing.T) {
	r := NewRegistry()
	r.RegisterAction(&Action{ID: "save", Keybindings: []string{"ctrl+s"}})

	changes := 0
	r.OnChange(func() { changes++ })

	require.NoError(t, r.SetKeybindings("save", "alt+s", "shift+f2"))
	assert.Equal(t, []string{"Alt+S", "Shift+F2"}, r.Keybindings("save"))

	require.NoError(t, r.SetKeySequence("save", key.Sequence{"ctrl+x", "s"}))
	assert.Equal(t, key.Sequence{"Ctrl+X", "S"}, r.GetAction("save").KeySequence)

	assert.ErrorIs(t, r.SetKeybindings("nope", "a"), ErrActionNotFound)
	assert.ErrorIs(t, r.SetKeySequence("nope", nil), ErrActionNotFound)
	assert.Nil(t, r.Keybindings("nope"))
	assert.Equal(t, 2, changes)
}

func TestOnChange(t *testing.T) {
	r := NewRegistry()
	changes := 0
	r.OnChange(func() { changes++ })

	r.RegisterAction(&Action{ID: "a"})
	r.RegisterAction(&Action{ID: "a"})
	r.RegisterActionGroup(&Group{ID: "g", Prefix: "#"})
	require.NoError(t, r.UnregisterAction("a"))
	require.NoError(t, r.UnregisterActionGroup("g"))

	assert.Equal(t, 4, changes)
}

func TestKeySequenceReturnsCopy(t *testing.T) {
	r := NewRegistry()
	r.RegisterAction(&Action{ID: "comment", KeySequence: key.Sequence{"ctrl+k", "ctrl+c"}})

	seq := r.KeySequence("comment")
	require.Equal(t, key.Sequence{"Ctrl+K", "Ctrl+C"}, seq)
	seq[0] = "X"
	assert.Equal(t, "Ctrl+K", r.GetAction("comment").KeySequence[0])
	assert.Nil(t, r.KeySequence("missing"))
}
