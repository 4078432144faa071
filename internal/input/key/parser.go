package key

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrEmptyBinding = errors.New("empty keybinding")
	ErrMissingKey   = errors.New("keybinding has no main key")
	ErrUnknownKey   = errors.New("unknown key in keybinding")
)

// Normalize converts a raw keybinding string into its canonical form.
//
// Tokens are split on "+", trimmed and matched case-insensitively against
// modifier and key aliases. Modifiers are reordered to Ctrl, Shift, Alt, Meta.
// If more than one non-modifier token is present the last one wins.
// Unrecognized tokens are kept as the main key; Normalize never fails.
//
// Normalize is idempotent.
func Normalize(raw string) string {
	mods, main := parse(raw)
	return join(mods, main)
}

// NormalizeAll normalizes every binding in place and returns the slice.
func NormalizeAll(bindings []string) []string {
	for i, b := range bindings {
		bindings[i] = Normalize(b)
	}
	return bindings
}

// Split splits a normalized binding into its ordered tokens.
// The input is expected to come from Normalize.
func Split(binding string) []string {
	switch {
	case binding == "":
		return nil
	case binding == "+":
		return []string{"+"}
	case strings.HasSuffix(binding, "++"):
		parts := strings.Split(binding[:len(binding)-2], "+")
		return append(parts, "+")
	default:
		return strings.Split(binding, "+")
	}
}

// Validate reports whether raw names a well-formed keybinding: at least
// one token, exactly one main key, and a main key that is either a known
// key name or a single character.
func Validate(raw string) error {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return ErrEmptyBinding
	}

	mains := 0
	for _, tok := range tokens {
		if ModifierFromName(tok) != ModNone {
			continue
		}
		mains++
		if !IsKnownKey(tok) {
			return fmt.Errorf("%w: %q", ErrUnknownKey, tok)
		}
	}
	if mains == 0 {
		return ErrMissingKey
	}
	if mains > 1 {
		return fmt.Errorf("%w: %q has %d main keys", ErrUnknownKey, raw, mains)
	}
	return nil
}

// ParseEvent builds the key event a binding describes.
func ParseEvent(raw string) Event {
	mods, main := parse(raw)
	return NewEvent(main, mods)
}

// parse splits a raw binding into its modifier set and main key.
func parse(raw string) (Modifier, string) {
	var mods Modifier
	var main string
	for _, tok := range tokenize(raw) {
		if mod := ModifierFromName(tok); mod != ModNone {
			mods = mods.With(mod)
			continue
		}
		main = canonicalKey(tok)
	}
	return mods, main
}

// tokenize splits raw on "+" and trims each token. A whitespace-only token
// is the space key; an empty token following another empty token ("++")
// is the plus key.
func tokenize(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, "+")
	tokens := make([]string, 0, len(parts))
	for i, p := range parts {
		t := strings.TrimSpace(p)
		switch {
		case t != "":
			tokens = append(tokens, t)
		case p != "":
			tokens = append(tokens, Space)
		case i > 0 && parts[i-1] == "":
			tokens = append(tokens, "+")
		}
	}
	return tokens
}

// join renders modifiers and main key in canonical form.
func join(mods Modifier, main string) string {
	tokens := mods.Tokens()
	if main != "" {
		tokens = append(tokens, main)
	}
	return strings.Join(tokens, "+")
}

// Display renders a binding for menus and hints; the space key is spelled out.
func Display(binding string) string {
	tokens := Split(Normalize(binding))
	for i, t := range tokens {
		if t == Space {
			tokens[i] = spaceName
		}
	}
	return strings.Join(tokens, "+")
}

// Fold returns the case-insensitive comparison form of a binding.
// Bindings and event keybindings that denote the same key press fold to the
// same string.
func Fold(binding string) string {
	tokens := Split(binding)
	for i, t := range tokens {
		tokens[i] = foldKey(t)
	}
	return strings.Join(tokens, "+")
}
