// Package action provides the action registry: named, context-parameterized
// operations grouped into prefix-addressable action groups.
//
// A Registry is an explicit object; create one per editor surface and pass
// it to the dispatcher and palette that use it:
//
//	reg := action.NewRegistry(action.WithLogger(log))
//	reg.RegisterAction(&action.Action{
//	    ID:          "editor.save",
//	    Label:       action.Text("Save"),
//	    Keybindings: []string{"ctrl+s"},
//	    Run: func(scope action.Context, args ...any) error {
//	        return save(scope)
//	    },
//	})
//
// Registration is first-wins: a second action (or group) with an already
// registered id is ignored. Every registry starts with the built-in default
// group (id "default", prefix ">") listing all registered actions, ranked by
// most recent execution.
//
// Descriptor fields that may be either constant or derived from the caller's
// context are Value[T] and are resolved on demand, never cached.
package action
