// Package scripting runs sandboxed GopherLua narration hooks. Scripts may describe
// what happens but never change game state: the engine only reads the strings they
// return.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the opcode budget of one script load or hook call when
// no override is configured.
const DefaultInstructionLimit = 100_000

// countingContext cancels itself after Done has been called limit times. GopherLua's
// main loop calls Done once per opcode, so this is an exact instruction budget.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newBudget returns a context that cancels after limit opcodes.
//
// Precondition: limit > 0.
func newBudget(limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(context.Background())
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultInstructionLimit
	}
	return limit
}

// NewSandboxedState creates an LState with only the base, table, string and math
// libraries, without dofile, loadfile, load, collectgarbage or require, and with a
// budget of instLimit opcodes for everything run before the budget is replaced.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: the caller owns the LState and must Close it.
func NewSandboxedState(instLimit int) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	ctx, _ := newBudget(normalizeLimit(instLimit)) //nolint:govet // cancels itself when spent
	L.SetContext(ctx)
	return L
}

// withBudget runs fn under a fresh budget of limit opcodes.
func withBudget(L *lua.LState, limit int, fn func() error) error {
	ctx, cancel := newBudget(normalizeLimit(limit))
	defer cancel()
	L.SetContext(ctx)
	defer L.RemoveContext()
	return fn()
}
