package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules installs the arena global table into L:
//
//	arena.log(msg)            logs msg at Info with the scope name
//	arena.clamp(x, lo, hi)    returns x bounded to [lo, hi]
//	arena.scope               the scope name
func (m *Manager) RegisterModules(L *lua.LState, scope string) {
	arena := L.NewTable()
	L.SetField(arena, "scope", lua.LString(scope))
	L.SetField(arena, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Info("scripting: script log",
			zap.String("scope", scope),
			zap.String("msg", L.CheckString(1)),
		)
		return 0
	}))
	L.SetField(arena, "clamp", L.NewFunction(func(L *lua.LState) int {
		x, lo, hi := L.CheckNumber(1), L.CheckNumber(2), L.CheckNumber(3)
		if x < lo {
			x = lo
		}
		if x > hi {
			x = hi
		}
		L.Push(x)
		return 1
	}))
	L.SetGlobal("arena", arena)
}
