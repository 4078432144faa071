// Package key provides keybinding parsing, normalization and matching.
//
// A keybinding is a canonical string of the form
//
//	[Ctrl+][Shift+][Alt+][Meta+]Key
//
// Modifiers are always emitted in that fixed order. The main key keeps the
// casing it was typed with, except that its first grapheme is upper-cased and
// recognized aliases are mapped to a single spelling:
//
//   - "shift+ctrl+k"    -> "Ctrl+Shift+K"
//   - "cmd+option+esc"  -> "Alt+Meta+Escape"
//   - "control+space"   -> "Ctrl+ " (the literal space is the space key)
//
// # Events
//
// Event is a live key press as reported by a rendering layer: four modifier
// flags and a key name. IsMatch compares an Event against a normalized
// binding, EventToKeybinding renders an Event as a (non-normalized) binding.
//
// # Sequences
//
// Chords such as "press Ctrl+K, then Ctrl+C" are represented as Sequence
// values, written in configuration as whitespace separated bindings:
// "Ctrl+K Ctrl+C".
package key
