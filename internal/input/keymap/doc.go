// Package keymap overrides the shortcuts of registered actions from user
// keymap files.
//
// A Keymap is an ordered list of bindings, each naming an action id and the
// keybindings and/or chord sequence it should respond to:
//
//	# keymap.toml
//	[[bindings]]
//	action = "editor.save"
//	keys = ["ctrl+s", "cmd+s"]
//
//	[[bindings]]
//	action = "editor.comment"
//	sequence = "ctrl+k ctrl+c"
//
// TOML, YAML and JSON files are loaded by extension. A JSON file holding a
// top-level array is read as a VS Code style keybindings.json.
//
// Apply rebinds the actions through the registry and can later be reverted;
// Watcher re-applies the files whenever they change on disk.
package keymap
