// Package ui renders the command palette as a bubbletea program.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/keycmd/internal/action"
	"github.com/dshills/keycmd/internal/input/key"
	"github.com/dshills/keycmd/internal/input/palette"
	"github.com/dshills/keycmd/internal/input/termkey"
)

// MaxRows is the number of rows shown at once.
const MaxRows = 10

// changedMsg tells the model the session state moved on outside Update,
// typically after a debounced fetch.
type changedMsg struct{}

// Theme holds the palette colors.
type Theme struct {
	Border   lipgloss.AdaptiveColor
	Subtle   lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
	Shortcut lipgloss.AdaptiveColor
	Error    lipgloss.AdaptiveColor
}

// DefaultTheme returns the default palette colors.
func DefaultTheme() Theme {
	return Theme{
		Border:   lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#555555"},
		Subtle:   lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#333333"},
		Selected: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"},
		Shortcut: lipgloss.AdaptiveColor{Light: "#888888", Dark: "#999999"},
		Error:    lipgloss.AdaptiveColor{Light: "#CC0000", Dark: "#FF5555"},
	}
}

// PaletteModel is a bubbletea model driving a palette session.
// The session must be open before the program starts; the program quits
// when the session closes.
type PaletteModel struct {
	session  *palette.Session
	registry *action.Registry
	input    textinput.Model
	theme    Theme
	state    palette.State
	width    int
	changed  chan struct{}
	err      error
}

// NewPaletteModel creates a model for an open session.
func NewPaletteModel(s *palette.Session, reg *action.Registry) *PaletteModel {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "type " + action.DefaultPrefix + " for commands"
	in.Focus()

	m := &PaletteModel{
		session:  s,
		registry: reg,
		input:    in,
		theme:    DefaultTheme(),
		width:    80,
		changed:  make(chan struct{}, 1),
	}
	s.OnChange(func(palette.State) {
		select {
		case m.changed <- struct{}{}:
		default:
		}
	})
	m.sync()
	return m
}

// Err returns the error of the last executed action.
func (m *PaletteModel) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *PaletteModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// waitForChange blocks until the session reports a change.
func (m *PaletteModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changed
		return changedMsg{}
	}
}

// Update implements tea.Model.
func (m *PaletteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case changedMsg:
		m.sync()
		if !m.state.Open {
			return m, tea.Quit
		}
		return m, m.waitForChange()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.session.Cancel()
			return m, tea.Quit
		}

		consumed, err := m.session.HandleKey(termkey.FromBubbleTea(msg))
		if err != nil {
			m.err = err
		}
		if consumed {
			m.sync()
			if !m.state.Open {
				return m, tea.Quit
			}
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != m.state.SearchText {
			m.session.SetSearchText(m.input.Value())
			m.sync()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// sync copies the session state into the model and keeps the text input
// in step with text the session rewrote, such as after choosing a group.
func (m *PaletteModel) sync() {
	m.state = m.session.State()
	if m.state.Open && m.input.Value() != m.state.SearchText {
		m.input.SetValue(m.state.SearchText)
		m.input.CursorEnd()
	}
}

// View implements tea.Model.
func (m *PaletteModel) View() string {
	if !m.state.Open {
		return ""
	}

	separator := lipgloss.NewStyle().
		Foreground(m.theme.Border).
		Width(m.width).
		Render(strings.Repeat("─", m.width))

	title := "Groups"
	if m.state.Group != nil {
		title = m.state.Group.Label.Resolve(nil)
	}
	header := lipgloss.NewStyle().Bold(true).Render(title) + "  " + m.input.View()

	lines := []string{separator, header, separator}
	lines = append(lines, m.rows()...)
	switch {
	case m.state.Err != nil:
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Error).Render(m.state.Err.Error()))
	case m.state.Loading:
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.Shortcut).Render("loading..."))
	}
	lines = append(lines, separator)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// rows renders the visible window of group or action rows around the
// selection.
func (m *PaletteModel) rows() []string {
	var texts, shortcuts []string
	var disabled []bool
	if m.state.Group == nil {
		for _, g := range m.state.Groups {
			texts = append(texts, fmt.Sprintf("%-4s %s", g.Prefix, g.Label.Resolve(nil)))
			shortcuts = append(shortcuts, "")
			disabled = append(disabled, g.IsDisabled(nil))
		}
	} else {
		for _, a := range m.state.Actions {
			text := a.ResolveLabel(nil)
			if desc := a.ResolveDescription(nil); desc != "" {
				text += " - " + desc
			}
			texts = append(texts, text)
			shortcuts = append(shortcuts, m.shortcut(a))
			disabled = append(disabled, a.IsDisabled(nil))
		}
	}
	if len(texts) == 0 {
		return []string{lipgloss.NewStyle().Foreground(m.theme.Shortcut).Padding(0, 1).Render("no matches")}
	}

	start := 0
	if m.state.SelectedIndex >= MaxRows {
		start = m.state.SelectedIndex - MaxRows + 1
	}
	end := min(start+MaxRows, len(texts))

	longest := 0
	for i := start; i < end; i++ {
		longest = max(longest, lipgloss.Width(texts[i]))
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := texts[i]
		if shortcuts[i] != "" {
			line += strings.Repeat(" ", longest-lipgloss.Width(texts[i])+4) +
				lipgloss.NewStyle().Foreground(m.theme.Shortcut).Render(shortcuts[i])
		}
		style := lipgloss.NewStyle().Width(m.width).Padding(0, 1)
		switch {
		case i == m.state.SelectedIndex:
			style = style.Foreground(m.theme.Selected).Background(m.theme.Subtle).Bold(true)
			line = "▶ " + line
		case disabled[i]:
			style = style.Faint(true)
			line = "  " + line
		default:
			line = "  " + line
		}
		out = append(out, style.Render(line))
	}
	return out
}

// shortcut returns the display form of an action's first shortcut.
func (m *PaletteModel) shortcut(a *action.Action) string {
	if seq := m.registry.KeySequence(a.ID); len(seq) > 0 {
		return seq.String()
	}
	if keys := m.registry.Keybindings(a.ID); len(keys) > 0 {
		return key.Display(keys[0])
	}
	if len(a.KeySequence) > 0 {
		return a.KeySequence.String()
	}
	if len(a.Keybindings) > 0 {
		return key.Display(key.Normalize(a.Keybindings[0]))
	}
	return ""
}
