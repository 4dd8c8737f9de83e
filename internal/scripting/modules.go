package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/game/dice"
)

// RegisterModules installs the engine global:
//
//	engine.log.debug/info/warn/error(msg)
//	engine.dice.d6()                  -> face
//	engine.dice.pool(base, stress)    -> {successes=, messed_up=, base={...}, stress={...}}
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, logf := range levels {
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			logf(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "d6", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(dice.RollDie(m.roller)))
		return 1
	}))
	L.SetField(mod, "pool", L.NewFunction(func(L *lua.LState) int {
		base := max(0, L.OptInt(1, 1))
		stress := max(0, L.OptInt(2, 0))
		res := m.roller.RollPool(dice.Pool{Base: base, Stress: stress}, "lua", false)
		out := L.NewTable()
		out.RawSetString("successes", lua.LNumber(res.Successes))
		out.RawSetString("messed_up", lua.LBool(res.MessedUp))
		out.RawSetString("base", faces(L, res.BaseDice))
		out.RawSetString("stress", faces(L, res.StressDice))
		L.Push(out)
		return 1
	}))
	return mod
}

func faces(L *lua.LState, fs []int) *lua.LTable {
	t := L.CreateTable(len(fs), 0)
	for _, f := range fs {
		t.Append(lua.LNumber(f))
	}
	return t
}
