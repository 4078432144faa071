package key

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// Space is the canonical main-key token for the space bar.
const Space = " "

// spaceName is how the space bar is spelled in events and display strings.
const spaceName = "Space"

// keyAliasMap maps key names (lowercase) to their canonical spelling.
var keyAliasMap = map[string]string{
	"space":      Space,
	"esc":        "Escape",
	"escape":     "Escape",
	"return":     "Enter",
	"enter":      "Enter",
	"cr":         "Enter",
	"tab":        "Tab",
	"bs":         "Backspace",
	"backspace":  "Backspace",
	"del":        "Delete",
	"delete":     "Delete",
	"ins":        "Insert",
	"insert":     "Insert",
	"home":       "Home",
	"end":        "End",
	"pgup":       "PageUp",
	"pageup":     "PageUp",
	"pgdn":       "PageDown",
	"pagedown":   "PageDown",
	"up":         "ArrowUp",
	"arrowup":    "ArrowUp",
	"down":       "ArrowDown",
	"arrowdown":  "ArrowDown",
	"left":       "ArrowLeft",
	"arrowleft":  "ArrowLeft",
	"right":      "ArrowRight",
	"arrowright": "ArrowRight",
	"plus":       "+",
}

// knownKeys holds the lowercase names accepted by Validate besides
// single graphemes.
var knownKeys = func() map[string]bool {
	known := make(map[string]bool, len(keyAliasMap)+24)
	for alias, canonical := range keyAliasMap {
		known[alias] = true
		known[strings.ToLower(canonical)] = true
	}
	for i := 1; i <= 24; i++ {
		known[fmt.Sprintf("f%d", i)] = true
	}
	for _, name := range []string{"capslock", "numlock", "scrolllock", "pause", "printscreen", "contextmenu"} {
		known[name] = true
	}
	return known
}()

// KeyFromName returns the canonical spelling of a key alias.
// The second return value is false if name is not a recognized alias.
func KeyFromName(name string) (string, bool) {
	k, ok := keyAliasMap[strings.ToLower(name)]
	return k, ok
}

// IsKnownKey reports whether name is a recognized key name or a single
// grapheme (a printable character key).
func IsKnownKey(name string) bool {
	if name == Space || knownKeys[strings.ToLower(name)] {
		return true
	}
	return uniseg.GraphemeClusterCount(name) == 1
}

// canonicalKey maps a main-key token to its canonical spelling.
func canonicalKey(token string) string {
	if token == Space {
		return Space
	}
	if k, ok := KeyFromName(token); ok {
		return k
	}
	return capitalize(token)
}

// capitalize upper-cases the first grapheme cluster and keeps the rest as typed.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, rest, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return strings.ToUpper(first) + rest
}

// foldKey returns the comparison form of a main key: lowercase, with the
// literal space and the word "space" made equivalent.
func foldKey(k string) string {
	if k == Space {
		return "space"
	}
	return strings.ToLower(k)
}
