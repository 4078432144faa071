package palette

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/dshills/keycmd/internal/action"
)

// Matches reports whether every whitespace-separated part of query is a
// case-insensitive substring of the action's label or description.
func Matches(a *action.Action, query string, scope action.Context) bool {
	parts := strings.Fields(strings.ToLower(query))
	if len(parts) == 0 {
		return true
	}

	label := strings.ToLower(a.ResolveLabel(scope))
	desc := strings.ToLower(a.ResolveDescription(scope))
	for _, part := range parts {
		if !strings.Contains(label, part) && !strings.Contains(desc, part) {
			return false
		}
	}
	return true
}

// Filter returns the visible actions that match query, in input order.
func Filter(actions []*action.Action, query string, scope action.Context) []*action.Action {
	result := make([]*action.Action, 0, len(actions))
	for _, a := range actions {
		if a == nil || !a.IsVisible(scope) {
			continue
		}
		if Matches(a, query, scope) {
			result = append(result, a)
		}
	}
	return result
}

// labelSource adapts an action list to fuzzy.Source.
type labelSource struct {
	actions []*action.Action
	labels  []string
}

func (s labelSource) String(i int) string { return s.labels[i] }
func (s labelSource) Len() int            { return len(s.labels) }

// FuzzySource returns an ActionsFunc for "filter"-mode groups that ranks the
// actions produced by list by fuzzy match score against the query.
// An empty query returns the list unchanged.
func FuzzySource(list func(scope action.Context) []*action.Action) action.ActionsFunc {
	return func(ctx context.Context, scope action.Context, query string) ([]*action.Action, error) {
		actions := list(scope)
		query = strings.TrimSpace(query)
		if query == "" {
			return actions, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src := labelSource{actions: actions, labels: make([]string, len(actions))}
		for i, a := range actions {
			src.labels[i] = a.ResolveLabel(scope)
		}

		matches := fuzzy.FindFrom(query, src)
		result := make([]*action.Action, 0, len(matches))
		for _, m := range matches {
			result = append(result, src.actions[m.Index])
		}
		return result, nil
	}
}
