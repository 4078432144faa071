package action

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a case-sensitive, locale-aware string collator.
// Collators are not safe for concurrent use; create one per sort.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// CompareLabels compares two labels the way menus and the palette order
// them: locale-aware and case-sensitive. It returns -1, 0 or 1.
func CompareLabels(a, b string) int {
	return newCollator().CompareString(a, b)
}

// LabelLess returns a comparator for repeated use within one sort.
func LabelLess() func(a, b string) bool {
	c := newCollator()
	return func(a, b string) bool {
		return c.CompareString(a, b) < 0
	}
}

// SortByRecency orders actions by last execution, most recent first.
// Never-executed actions come last; ties are broken by resolved label.
func SortByRecency(actions []*Action, scope Context) {
	less := LabelLess()
	labels := make(map[*Action]string, len(actions))
	label := func(a *Action) string {
		l, ok := labels[a]
		if !ok {
			l = a.ResolveLabel(scope)
			labels[a] = l
		}
		return l
	}

	sort.SliceStable(actions, func(i, j int) bool {
		ti := actions[i].lastSelected.Load()
		tj := actions[j].lastSelected.Load()
		if ti != tj {
			return ti > tj
		}
		return less(label(actions[i]), label(actions[j]))
	})
}
