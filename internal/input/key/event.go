package key

import (
	"fmt"
	"strings"
	"time"
)

// Event represents a single key press as reported by a rendering layer.
type Event struct {
	Ctrl  bool
	Shift bool
	Alt   bool
	Meta  bool

	// Key names the key pressed: a character ("k", " ", "?") or a key name
	// ("Enter", "ArrowDown", "PageUp", "F5").
	Key string

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(k string, mods Modifier) Event {
	return Event{
		Ctrl:      mods.Has(ModCtrl),
		Shift:     mods.Has(ModShift),
		Alt:       mods.Has(ModAlt),
		Meta:      mods.Has(ModMeta),
		Key:       k,
		Timestamp: time.Now(),
	}
}

// Modifiers returns the event's modifier flags as a Modifier set.
func (e Event) Modifiers() Modifier {
	var m Modifier
	if e.Ctrl {
		m = m.With(ModCtrl)
	}
	if e.Shift {
		m = m.With(ModShift)
	}
	if e.Alt {
		m = m.With(ModAlt)
	}
	if e.Meta {
		m = m.With(ModMeta)
	}
	return m
}

// Is reports whether the event is the named key with no modifiers.
func (e Event) Is(name string) bool {
	return e.Modifiers().IsEmpty() && foldKey(e.Key) == foldKey(canonicalKey(name))
}

// String returns the event as a keybinding string.
func (e Event) String() string {
	return EventToKeybinding(e)
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %q, Modifiers: %s}", e.Key, e.Modifiers().String())
}

// EventToKeybinding renders an event as a keybinding string: modifiers in
// Ctrl, Shift, Alt, Meta order followed by the key, with the literal space
// written as "Space". The result keeps the event's key casing and is not
// guaranteed to be normalized.
func EventToKeybinding(e Event) string {
	parts := make([]string, 0, 5)
	if e.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if e.Shift {
		parts = append(parts, "Shift")
	}
	if e.Alt {
		parts = append(parts, "Alt")
	}
	if e.Meta {
		parts = append(parts, "Meta")
	}
	k := e.Key
	if k == Space {
		k = spaceName
	}
	parts = append(parts, k)
	return strings.Join(parts, "+")
}

// IsMatch reports whether a normalized binding matches an event.
// Every modifier flag must equal the binding's modifier set exactly, and the
// main key must match case-insensitively, with " " and "space" equivalent.
func IsMatch(binding string, e Event) bool {
	var mods Modifier
	var main string
	for _, tok := range Split(binding) {
		if mod := ModifierFromName(tok); mod != ModNone {
			mods = mods.With(mod)
			continue
		}
		main = tok
	}

	if e.Ctrl != mods.Has(ModCtrl) ||
		e.Shift != mods.Has(ModShift) ||
		e.Alt != mods.Has(ModAlt) ||
		e.Meta != mods.Has(ModMeta) {
		return false
	}
	return foldKey(main) == foldKey(e.Key)
}
