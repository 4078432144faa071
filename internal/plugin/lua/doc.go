// Package lua loads actions and action groups from Lua scripts.
//
// Scripts run in a sandboxed gopher-lua state with only the base, string,
// table and math libraries available. The keycmd module is exposed both as
// a global and through require:
//
//	local keycmd = require("keycmd")
//
//	keycmd.action {
//	    id = "buffer.close",
//	    label = "Close Buffer",
//	    keys = { "ctrl+w" },
//	    menu = "buffer",
//	    order = 2,
//	    run = function(name) print("closing " .. name) end,
//	}
//
//	keycmd.group {
//	    id = "files",
//	    prefix = "@",
//	    label = "Files",
//	    mode = "filter",
//	    actions = function(query)
//	        return { { id = "open." .. query, label = query } }
//	    end,
//	}
//
// A filter group without an actions function fuzzy-matches the query against
// the labels of the plugin's actions that name the group.
//
// A loaded Plugin owns its state. Action and group callbacks re-enter the
// state under its lock, so they may be invoked from any goroutine.
package lua
