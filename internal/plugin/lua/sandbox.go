package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// sandbox restricts a state and meters the work a script does.
type sandbox struct {
	L *lua.LState

	limit    int64
	count    int64
	exceeded bool
}

func newSandbox(L *lua.LState, limit int64) *sandbox {
	return &sandbox{L: L, limit: limit}
}

// install removes functions that load code or leak outside the script.
func (s *sandbox) install() {
	dangerous := []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"print",
		"collectgarbage",
		"require",
	}
	for _, name := range dangerous {
		s.L.SetGlobal(name, lua.LNil)
	}
}

// charge counts one operation and raises a Lua error once the budget is
// spent. A limit of zero or less disables the budget.
func (s *sandbox) charge() {
	s.count++
	if s.limit > 0 && s.count > s.limit {
		s.exceeded = true
		s.L.RaiseError("%s (%d)", ErrOperationLimit, s.limit)
	}
}
