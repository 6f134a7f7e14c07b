package lua

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Default limits for script execution.
const (
	DefaultOperationLimit   = 100_000         // Canvas calls per run
	DefaultExecutionTimeout = 5 * time.Second // Wall clock per run
)

// newState creates a sandboxed Lua state with only the safe libraries open.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	return L
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// Not opened: io, os, debug, package, channel, coroutine.
}

// doWithRecovery executes fn, turning a panic into an error.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}
