// Package termkey converts terminal key events from tcell and bubbletea
// into key.Event values with DOM-style key names.
//
// Both libraries report control letters as distinct key codes rather than
// a letter plus a modifier. Those codes are folded back into "Ctrl" plus
// the lowercase letter so that bindings such as "Ctrl+P" match regardless
// of which terminal library produced the event.
package termkey

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keycmd/internal/input/key"
)

// tcellNames maps tcell special keys to key names.
var tcellNames = map[tcell.Key]string{
	tcell.KeyEscape:     "Escape",
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyBacktab:    "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyInsert:     "Insert",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "ArrowUp",
	tcell.KeyDown:       "ArrowDown",
	tcell.KeyLeft:       "ArrowLeft",
	tcell.KeyRight:      "ArrowRight",
}

// FromTcell converts a tcell key event.
func FromTcell(ev *tcell.EventKey) key.Event {
	mods := ev.Modifiers()
	out := key.Event{
		Ctrl:      mods&tcell.ModCtrl != 0,
		Shift:     mods&tcell.ModShift != 0,
		Alt:       mods&tcell.ModAlt != 0,
		Meta:      mods&tcell.ModMeta != 0,
		Timestamp: ev.When(),
	}

	k := ev.Key()
	switch {
	case k == tcell.KeyRune:
		out.Key = string(ev.Rune())
	case k == tcell.KeyBacktab:
		out.Key = "Tab"
		out.Shift = true
	case tcellNames[k] != "":
		out.Key = tcellNames[k]
	case k >= tcell.KeyF1 && k <= tcell.KeyF24:
		out.Key = fmt.Sprintf("F%d", int(k-tcell.KeyF1)+1)
	case k == tcell.KeyCtrlSpace:
		out.Key = key.Space
		out.Ctrl = true
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		out.Key = string(rune('a' + int(k-tcell.KeyCtrlA)))
		out.Ctrl = true
	default:
		out.Key = ev.Name()
	}
	return out
}

// teaNames maps bubbletea special keys to key names. Shifted and
// control-modified arrows are listed separately because bubbletea reports
// them as their own key types.
var teaNames = map[tea.KeyType]key.Event{
	tea.KeyEnter:         {Key: "Enter"},
	tea.KeyEsc:           {Key: "Escape"},
	tea.KeyTab:           {Key: "Tab"},
	tea.KeyShiftTab:      {Key: "Tab", Shift: true},
	tea.KeyBackspace:     {Key: "Backspace"},
	tea.KeyDelete:        {Key: "Delete"},
	tea.KeyInsert:        {Key: "Insert"},
	tea.KeySpace:         {Key: key.Space},
	tea.KeyHome:          {Key: "Home"},
	tea.KeyEnd:           {Key: "End"},
	tea.KeyPgUp:          {Key: "PageUp"},
	tea.KeyPgDown:        {Key: "PageDown"},
	tea.KeyUp:            {Key: "ArrowUp"},
	tea.KeyDown:          {Key: "ArrowDown"},
	tea.KeyLeft:          {Key: "ArrowLeft"},
	tea.KeyRight:         {Key: "ArrowRight"},
	tea.KeyCtrlUp:        {Key: "ArrowUp", Ctrl: true},
	tea.KeyCtrlDown:      {Key: "ArrowDown", Ctrl: true},
	tea.KeyCtrlLeft:      {Key: "ArrowLeft", Ctrl: true},
	tea.KeyCtrlRight:     {Key: "ArrowRight", Ctrl: true},
	tea.KeyCtrlHome:      {Key: "Home", Ctrl: true},
	tea.KeyCtrlEnd:       {Key: "End", Ctrl: true},
	tea.KeyCtrlPgUp:      {Key: "PageUp", Ctrl: true},
	tea.KeyCtrlPgDown:    {Key: "PageDown", Ctrl: true},
	tea.KeyShiftUp:       {Key: "ArrowUp", Shift: true},
	tea.KeyShiftDown:     {Key: "ArrowDown", Shift: true},
	tea.KeyShiftLeft:     {Key: "ArrowLeft", Shift: true},
	tea.KeyShiftRight:    {Key: "ArrowRight", Shift: true},
	tea.KeyShiftHome:     {Key: "Home", Shift: true},
	tea.KeyShiftEnd:      {Key: "End", Shift: true},
	tea.KeyCtrlShiftUp:   {Key: "ArrowUp", Ctrl: true, Shift: true},
	tea.KeyCtrlShiftDown: {Key: "ArrowDown", Ctrl: true, Shift: true},
	tea.KeyNull:          {Key: key.Space, Ctrl: true},
}

// FromBubbleTea converts a bubbletea key message. The timestamp is the
// conversion time since bubbletea messages carry none.
func FromBubbleTea(msg tea.KeyMsg) key.Event {
	var out key.Event
	switch {
	case msg.Type == tea.KeyRunes:
		out.Key = string(msg.Runes)
	case teaNames[msg.Type].Key != "":
		out = teaNames[msg.Type]
	case msg.Type <= tea.KeyF1 && msg.Type >= tea.KeyF20:
		// Function key types count downward from KeyF1.
		out.Key = fmt.Sprintf("F%d", int(tea.KeyF1-msg.Type)+1)
	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ:
		out.Key = string(rune('a' + int(msg.Type-tea.KeyCtrlA)))
		out.Ctrl = true
	default:
		out.Key = msg.String()
	}
	out.Alt = out.Alt || msg.Alt
	out.Timestamp = time.Now()
	return out
}
