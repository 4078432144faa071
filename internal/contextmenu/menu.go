// Package contextmenu aggregates registered actions into the ordered,
// sectioned list a right-click menu renders.
package contextmenu

import (
	"sort"

	"github.com/dshills/keycmd/internal/action"
)

// Section is one separator-delimited block of a context menu.
type Section struct {
	GroupID string
	Actions []*action.Action
}

// Build groups every visible action that declares a context menu group.
//
// The "layout" section is always first and "commandPalette" always last;
// the remaining sections are ordered by group id. Within a section actions
// are ordered by ContextMenuOrder, then by resolved label.
func Build(actions []*action.Action, scope action.Context) []Section {
	byGroup := make(map[string][]*action.Action)
	for _, a := range actions {
		if a == nil || a.ContextMenuGroupID == "" || !a.IsVisible(scope) {
			continue
		}
		byGroup[a.ContextMenuGroupID] = append(byGroup[a.ContextMenuGroupID], a)
	}

	groupIDs := make([]string, 0, len(byGroup))
	for id := range byGroup {
		groupIDs = append(groupIDs, id)
	}
	sort.Slice(groupIDs, func(i, j int) bool {
		return groupLess(groupIDs[i], groupIDs[j])
	})

	less := action.LabelLess()
	sections := make([]Section, 0, len(groupIDs))
	for _, id := range groupIDs {
		items := byGroup[id]
		labels := make(map[*action.Action]string, len(items))
		for _, a := range items {
			labels[a] = a.ResolveLabel(scope)
		}
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].ContextMenuOrder != items[j].ContextMenuOrder {
				return items[i].ContextMenuOrder < items[j].ContextMenuOrder
			}
			return less(labels[items[i]], labels[items[j]])
		})
		sections = append(sections, Section{GroupID: id, Actions: items})
	}
	return sections
}

// FromRegistry builds the context menu from every action in r.
func FromRegistry(r *action.Registry, scope action.Context) []Section {
	return Build(r.Actions(), scope)
}

// Execute runs a menu entry. Menu invocations do not affect palette ranking.
func Execute(r *action.Registry, a *action.Action, scope action.Context, args ...any) error {
	return r.ExecuteFromContextMenu(a, scope, args...)
}

func groupRank(id string) int {
	switch id {
	case action.MenuGroupLayout:
		return 0
	case action.MenuGroupCommandPalette:
		return 2
	default:
		return 1
	}
}

func groupLess(a, b string) bool {
	ra, rb := groupRank(a), groupRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}
