package lua

import (
	"math"
	"math/rand"

	lua "github.com/yuin/gopher-lua"
)

// installRandom replaces math.random and math.randomseed with a generator
// seeded from the command, so every replay draws the same numbers.
func installRandom(L *lua.LState, seed int64) {
	mod, ok := L.GetGlobal("math").(*lua.LTable)
	if !ok {
		return
	}
	rng := rand.New(rand.NewSource(seed))

	mod.RawSetString("random", L.NewFunction(func(L *lua.LState) int {
		var lo, hi int64
		switch L.GetTop() {
		case 0:
			L.Push(lua.LNumber(rng.Float64()))
			return 1
		case 1:
			lo, hi = 1, L.CheckInt64(1)
		default:
			lo, hi = L.CheckInt64(1), L.CheckInt64(2)
		}
		if lo > hi {
			L.ArgError(L.GetTop(), "interval is empty")
			return 0
		}
		span := uint64(hi - lo)
		if span >= math.MaxInt64 {
			L.ArgError(L.GetTop(), "interval is too large")
			return 0
		}
		L.Push(lua.LNumber(lo + rng.Int63n(int64(span)+1)))
		return 1
	}))

	mod.RawSetString("randomseed", L.NewFunction(func(L *lua.LState) int {
		rng.Seed(L.CheckInt64(1))
		return 0
	}))
}
