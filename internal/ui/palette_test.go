package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/palette"
	"github.com/dshills/keycmd/internal/schedule"
)

type harness struct {
	reg     *action.Registry
	session *palette.Session
	model   *PaletteModel
	ran     []string
}

func newHarness(t *testing.T, text string) *harness {
	t.Helper()
	h := &harness{reg: action.NewRegistry()}
	for _, a := range []struct{ id, label, keys string }{
		{"file.open", "Open File", "ctrl+o"},
		{"file.save", "Save File", "ctrl+s"},
		{"view.zoom", "Zoom In", ""},
	} {
		id := a.id
		act := &action.Action{
			ID:    id,
			Label: action.Text(a.label),
			Run: func(_ action.Context, _ ...any) error {
				h.ran = append(h.ran, id)
				return nil
			},
		}
		if a.keys != "" {
			act.Keybindings = []string{a.keys}
		}
		h.reg.RegisterAction(act)
	}
	h.session = palette.New(h.reg, palette.WithScheduler(schedule.NewManual(time.Now())))
	h.session.Open(text)
	h.model = NewPaletteModel(h.session, h.reg)
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.model.Update(msg)
	return cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPaletteModelExecutesSelection(t *testing.T) {
	h := newHarness(t, action.DefaultPrefix)
	require.Len(t, h.model.state.Actions, 3)

	assert.Nil(t, h.send(tea.KeyMsg{Type: tea.KeyDown}))
	assert.Equal(t, 1, h.model.state.SelectedIndex)

	cmd := h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, isQuit(cmd))
	assert.Equal(t, []string{"file.save"}, h.ran)
	assert.False(t, h.session.IsOpen())
	assert.NoError(t, h.model.Err())
}

func TestPaletteModelTypingFilters(t *testing.T) {
	h := newHarness(t, action.DefaultPrefix)

	for _, r := range "zoom" {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	assert.Equal(t, ">zoom", h.session.State().SearchText)
	require.Len(t, h.model.state.Actions, 1)
	assert.Equal(t, "view.zoom", h.model.state.Actions[0].ID)
	assert.Contains(t, h.model.View(), "Zoom In")
}

func TestPaletteModelShowsShortcuts(t *testing.T) {
	h := newHarness(t, action.DefaultPrefix)
	view := h.model.View()
	assert.Contains(t, view, "Ctrl+O")
	assert.Contains(t, view, "▶ ")
}

func TestPaletteModelGroupPicker(t *testing.T) {
	h := newHarness(t, "")
	assert.Nil(t, h.model.state.Group)
	require.NotEmpty(t, h.model.state.Groups)
	assert.Contains(t, h.model.View(), "Groups")

	// Choosing the default group rewrites the search text to its prefix.
	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, h.session.IsOpen())
	assert.Equal(t, action.DefaultPrefix, h.model.input.Value())
	assert.Len(t, h.model.state.Actions, 3)
}

func TestPaletteModelEscapeAndCtrlC(t *testing.T) {
	h := newHarness(t, action.DefaultPrefix)
	assert.True(t, isQuit(h.send(tea.KeyMsg{Type: tea.KeyEsc})))
	assert.False(t, h.session.IsOpen())
	assert.Empty(t, h.model.View())

	h = newHarness(t, action.DefaultPrefix)
	assert.True(t, isQuit(h.send(tea.KeyMsg{Type: tea.KeyCtrlC})))
	assert.False(t, h.session.IsOpen())
	assert.Empty(t, h.ran)
}

func TestPaletteModelChangeNotification(t *testing.T) {
	h := newHarness(t, action.DefaultPrefix)
	h.session.SetSearchText(">save")
	msg := h.model.waitForChange()()
	assert.IsType(t, changedMsg{}, msg)

	assert.NotNil(t, h.send(changedMsg{}))
	require.Len(t, h.model.state.Actions, 1)

	h.session.Close()
	assert.True(t, isQuit(h.send(changedMsg{})))
}
