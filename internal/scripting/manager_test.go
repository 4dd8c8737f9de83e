package scripting_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/survivors/internal/game/dice"
	"github.com/cory-johannsen/survivors/internal/game/dice/dicetest"
	"github.com/cory-johannsen/survivors/internal/scripting"
)

func newTestManager(t testing.TB, faces ...int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	if len(faces) == 0 {
		faces = []int{3}
	}
	roller := dice.NewLoggedRoller(dicetest.NewFaces(faces...), logger)
	mgr := scripting.NewManager(roller, logger, 0)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeTempLua(t testing.TB, filename, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0644))
	return dir
}

func TestManager_LoadDir_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "hooks.lua", `
		function test_hook(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadDir(dir))
	ret, err := mgr.CallHook("test_hook", lua.LNumber(3), lua.LNumber(4))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(7), ret)
}

func TestManager_LoadDir_OrderedByName(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`base_val = 10`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`function get_val() return base_val end`), 0644))
	require.NoError(t, mgr.LoadDir(dir))
	ret, err := mgr.CallHook("get_val")
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(10), ret)
}

func TestManager_LoadDir_MissingDirLoadsNothing(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadDir(filepath.Join(t.TempDir(), "absent")))
}

func TestManager_LoadDir_InvalidLua(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.LoadDir(dir))
}

func TestManager_CallHook_MissingHookIsNoOp(t *testing.T) {
	mgr, _ := newTestManager(t)
	ret, err := mgr.CallHook("nonexistent_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestManager_CallHook_RuntimeErrorLogsWarn(t *testing.T) {
	mgr, logs := newTestManager(t)
	require.NoError(t, mgr.LoadString(`function bad_hook() error("intentional error") end`))
	ret, err := mgr.CallHook("bad_hook")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
}

func TestManager_CallHook_BudgetIsPerCall(t *testing.T) {
	core, _ := observer.New(zap.DebugLevel)
	roller := dice.NewLoggedRoller(dicetest.NewFaces(3), zap.New(core))
	mgr := scripting.NewManager(roller, zap.New(core), 200)
	defer mgr.Close()
	require.NoError(t, mgr.LoadString(`
		function spin() while true do end end
		function small() local x = 0 for i = 1, 10 do x = x + i end return x end
	`))

	ret, err := mgr.CallHook("spin")
	require.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
	for i := 0; i < 5; i++ {
		ret, err = mgr.CallHook("small")
		require.NoError(t, err)
		assert.Equal(t, lua.LNumber(55), ret, "a spent budget must not leak into later calls")
	}
}

func TestManager_CallHook_ConcurrentCallsAreSerialized(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString(`function add(a, b) return a + b end`))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				ret, err := mgr.CallHook("add", lua.LNumber(1), lua.LNumber(2))
				assert.NoError(t, err)
				assert.Equal(t, lua.LNumber(3), ret)
			}
		}()
	}
	wg.Wait()
}

func TestManager_CloseReleasesVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString(`function get_x() return 1 end`))
	mgr.Close()
	ret, err := mgr.CallHook("get_x")
	assert.NoError(t, err)
	assert.Equal(t, lua.LNil, ret)
}

func TestNewManager_PanicsOnNilDeps(t *testing.T) {
	roller := dice.NewLoggedRoller(dicetest.NewFaces(3), zap.NewNop())
	assert.Panics(t, func() { scripting.NewManager(nil, zap.NewNop(), 0) })
	assert.Panics(t, func() { scripting.NewManager(roller, nil, 0) })
}
