// Package palette implements the command palette session: the state machine
// behind a prefix-addressed, keyboard-navigable action picker.
//
// # Overview
//
// A Session is bound to an action registry. While open it tracks:
//
//   - the free-text search input
//   - the action group selected by the input's prefix (or none, in which
//     case the group picker is shown)
//   - the filtered action list of the selected group
//   - the selected row
//
// Groups in "actions" mode are fetched once per session and filtered by
// substring on every keystroke. Groups in "filter" mode are re-queried
// through a debounce; results of a superseded query are discarded.
//
// # Usage
//
//	s := palette.New(reg, palette.WithScope(currentEditor))
//	s.OnChange(render)
//	s.Open(">")
//	s.SetSearchText(">save")
//	s.HandleKey(key.ParseEvent("ArrowDown"))
//	err := s.Execute()
//
// # Keys
//
// HandleKey consumes the selected group's option keybindings first, then
// ArrowUp/ArrowDown (one actionable step, wrapping), PageUp/PageDown (up to
// Config.PageSize actionable steps, not wrapping), Enter and Escape.
//
// # Thread Safety
//
// All session operations are safe for concurrent use. Change callbacks and
// group functions are called without holding the session lock.
package palette
