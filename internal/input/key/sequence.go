package key

import "strings"

// Sequence is an ordered list of normalized keybindings that must be pressed
// one after another. Examples: "Ctrl+K Ctrl+C", "G G".
type Sequence []string

// ParseSequence parses whitespace separated bindings into a normalized Sequence.
// "Ctrl+Space" style names must be used for the space key inside a sequence.
func ParseSequence(s string) Sequence {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	seq := make(Sequence, len(fields))
	for i, f := range fields {
		seq[i] = Normalize(f)
	}
	return seq
}

// NewSequence normalizes the given bindings into a Sequence.
func NewSequence(bindings ...string) Sequence {
	if len(bindings) == 0 {
		return nil
	}
	seq := make(Sequence, len(bindings))
	for i, b := range bindings {
		seq[i] = Normalize(b)
	}
	return seq
}

// Len returns the number of bindings in the sequence.
func (s Sequence) Len() int {
	return len(s)
}

// IsEmpty returns true if the sequence has no bindings.
func (s Sequence) IsEmpty() bool {
	return len(s) == 0
}

// Equal reports whether both sequences have the same length and every
// binding matches case-insensitively.
func (s Sequence) Equal(other []string) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if Fold(s[i]) != Fold(other[i]) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix matches s component-wise up to the
// length of prefix. An empty prefix is a prefix of every sequence.
func (s Sequence) HasPrefix(prefix []string) bool {
	if len(prefix) > len(s) {
		return false
	}
	for i := range prefix {
		if Fold(s[i]) != Fold(prefix[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sequence.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)
	return out
}

// String returns a human-readable representation: "Ctrl+K Ctrl+C".
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, b := range s {
		parts[i] = Display(b)
	}
	return strings.Join(parts, " ")
}
