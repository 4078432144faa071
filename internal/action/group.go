package action

import "context"

// Built-in group and context menu identifiers.
const (
	// DefaultGroupID is the id of the group installed in every registry.
	DefaultGroupID = "default"

	// DefaultPrefix selects the default group in the palette.
	DefaultPrefix = ">"

	// MenuGroupLayout is always the first context menu group.
	MenuGroupLayout = "layout"

	// MenuGroupCommandPalette is always the last context menu group.
	// Executing an action from this group does not update its recency.
	MenuGroupCommandPalette = "commandPalette"
)

// Mode selects how a group's actions are produced while the user types.
type Mode string

const (
	// ModeActions groups return a static or semi-static list once per
	// palette session; the palette filters it by substring.
	ModeActions Mode = "actions"

	// ModeFilter groups are re-queried (debounced) on every keystroke.
	ModeFilter Mode = "filter"
)

// Position is a layout hint for where a group's list is shown.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
)

// ActionsFunc produces a group's actions. For ModeActions groups query is
// the empty string; ModeFilter groups receive the text typed after the prefix.
// ctx is canceled when the palette session closes.
type ActionsFunc func(ctx context.Context, scope Context, query string) ([]*Action, error)

// GroupOption is an auxiliary toggle shown alongside a group's list.
type GroupOption struct {
	// ID identifies the option within its group.
	ID string

	// Label is the option's display text.
	Label Value[string]

	// Keybinding triggers the option while the palette has focus.
	// It is normalized when the group is registered.
	Keybinding string

	// Selected reports the toggle state.
	Selected Value[bool]

	// Disabled prevents the option from being triggered.
	Disabled Value[bool]

	// Run is invoked when the option is triggered.
	Run func(scope Context)
}

// Group describes a prefix-addressable source of actions.
type Group struct {
	// ID is the unique group identifier.
	ID string

	// Prefix is what users type to select the group. Uniqueness across
	// groups is not enforced.
	Prefix string

	// Label and Description are shown in the group picker.
	Label       Value[string]
	Description Value[string]

	// Mode selects static or per-keystroke fetching.
	Mode Mode

	// Actions produces the group's actions.
	Actions ActionsFunc

	// Options are auxiliary toggles with their own keybindings.
	Options []GroupOption

	// OnOpen is called when the palette switches into this group.
	OnOpen func(scope Context)

	// OnCancel is called when the palette is dismissed while this group
	// is selected.
	OnCancel func(scope Context)

	// Position is consumed by layout only.
	Position Position

	// Disabled groups cannot be chosen from the group picker.
	Disabled Value[bool]
}

// IsDisabled reports whether the group can be chosen.
func (g *Group) IsDisabled(scope Context) bool {
	return g.Disabled.Resolve(scope)
}

// Fetch calls the group's Actions function. A group without one yields nil.
func (g *Group) Fetch(ctx context.Context, scope Context, query string) ([]*Action, error) {
	if g.Actions == nil {
		return nil, nil
	}
	return g.Actions(ctx, scope, query)
}
