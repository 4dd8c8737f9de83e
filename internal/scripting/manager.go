package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/survivors/internal/game/dice"
)

// HookOtherAction is called as on_other_action(actor_name, text) for every free-form
// action resolved in the Other/Leadership phase. A non-empty string return replaces
// the default narration.
const HookOtherAction = "on_other_action"

// Manager owns one sandboxed VM holding every narration script.
//
// Manager is safe for concurrent use; calls into the VM are serialized.
type Manager struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	roller *dice.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with an empty VM and the engine.* modules registered.
//
// Precondition: roller and logger must be non-nil; instLimit 0 uses
// DefaultInstructionLimit.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	m := &Manager{L: NewSandboxedState(instLimit), limit: instLimit, roller: roller, logger: logger}
	m.RegisterModules(m.L)
	return m
}

// LoadDir executes every *.lua file in dir in lexicographic order. A missing dir
// loads nothing.
//
// Postcondition: Returns an error naming the first file that fails to load.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		m.logger.Info("scripting: no script dir", zap.String("dir", dir))
		return nil
	}
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, path := range files {
		if err := withBudget(m.L, m.limit, func() error { return m.L.DoFile(path) }); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	m.logger.Info("scripting: loaded scripts", zap.String("dir", dir), zap.Int("files", len(files)))
	return nil
}

// LoadString executes src in the VM.
func (m *Manager) LoadString(src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := withBudget(m.L, m.limit, func() error { return m.L.DoString(src) }); err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	return nil
}

// CallHook calls the named global function. Returns (LNil, nil) when the hook is
// not defined. Lua runtime errors, including a spent instruction budget, are logged
// at Warn and never propagated.
//
// Postcondition: Returns the hook's first return value, or LNil.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L == nil {
		return lua.LNil, nil
	}
	fn := m.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}
	var ret lua.LValue = lua.LNil
	err := withBudget(m.L, m.limit, func() error {
		if err := m.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
			return err
		}
		ret = m.L.Get(-1)
		m.L.Pop(1)
		return nil
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil, nil
	}
	return ret, nil
}

// NarrateOther asks on_other_action for a line describing actorName's free-form action.
//
// Postcondition: ok is false when no script supplied a non-empty string.
func (m *Manager) NarrateOther(actorName, text string) (string, bool) {
	ret, _ := m.CallHook(HookOtherAction, lua.LString(actorName), lua.LString(text))
	s, ok := ret.(lua.LString)
	if !ok || strings.TrimSpace(string(s)) == "" {
		return "", false
	}
	return string(s), true
}

// Close releases the VM. Later hook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.L != nil {
		m.L.Close()
		m.L = nil
	}
}
