package palette

import "github.com/dshills/keycmd/internal/action"

// nextIndex moves from cur by up to steps actionable entries in direction
// dir (+1 or -1). With wrap the search continues past either end; without
// it movement stops at the last actionable entry reached. A cur outside the
// list starts the search just before the first (or after the last) entry.
// If no entry is actionable cur is returned unchanged.
func nextIndex(enabled []bool, cur, dir, steps int, wrap bool) int {
	n := len(enabled)
	if n == 0 || steps <= 0 || firstEnabled(enabled) < 0 {
		return cur
	}

	idx := cur
	if idx < 0 || idx >= n {
		if dir > 0 {
			idx = -1
		} else {
			idx = n
		}
	}

	result := cur
	for moved := 0; moved < steps; moved++ {
		next := -1
		i := idx
		for tries := 0; tries < n; tries++ {
			i += dir
			if i < 0 || i >= n {
				if !wrap {
					break
				}
				i = (i + n) % n
			}
			if enabled[i] {
				next = i
				break
			}
		}
		if next < 0 {
			break
		}
		idx, result = next, next
	}
	return result
}

// firstEnabled returns the index of the first actionable entry, or -1.
func firstEnabled(enabled []bool) int {
	for i, e := range enabled {
		if e {
			return i
		}
	}
	return -1
}

func actionFlags(actions []*action.Action, scope action.Context) []bool {
	flags := make([]bool, len(actions))
	for i, a := range actions {
		flags[i] = !a.IsDisabled(scope)
	}
	return flags
}

func groupFlags(groups []*action.Group, scope action.Context) []bool {
	flags := make([]bool, len(groups))
	for i, g := range groups {
		flags[i] = !g.IsDisabled(scope)
	}
	return flags
}
