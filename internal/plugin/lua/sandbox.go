package lua

import (
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// builtinModules are the standard modules require may return.
var builtinModules = []string{"string", "table", "math"}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L *lua.LState

	mu      sync.RWMutex
	allowed map[string]bool
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState) *Sandbox {
	allowed := make(map[string]bool, len(builtinModules))
	for _, name := range builtinModules {
		allowed[name] = true
	}
	return &Sandbox{L: L, allowed: allowed}
}

// Install removes functions that load code from outside the state and
// replaces require with a whitelist-based version.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installSafeRequire()
}

// Allow adds a module name to the require whitelist.
func (s *Sandbox) Allow(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.allowed[name] = true
}

// IsAllowed reports whether require may load the named module.
func (s *Sandbox) IsAllowed(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed[name]
}

// installSafeRequire clears the module search paths so nothing is read from
// disk, then wraps require so only whitelisted and preloaded modules load.
func (s *Sandbox) installSafeRequire() {
	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := s.L.GetGlobal("require")
	if originalRequire == lua.LNil {
		return
	}

	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		modName := L.CheckString(1)
		if !s.IsAllowed(modName) {
			L.RaiseError("module %q is not available", modName)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(modName))
		L.Call(1, 1)
		return 1
	}))
}
