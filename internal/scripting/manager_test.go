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
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/scripting"
)

func newTestManager(t testing.TB, limit int) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(limit, zap.New(core))
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func writeLua(t testing.TB, dir, filename, src string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), []byte(src), 0o644))
}

func hasLevel(logs *observer.ObservedLogs, lvl zapcore.Level) bool {
	for _, e := range logs.All() {
		if e.Level == lvl {
			return true
		}
	}
	return false
}

func TestManager_LoadScope_CallsHook(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "hooks.lua", `
		function add(a, b)
			return a + b
		end
	`)
	require.NoError(t, mgr.LoadScope("goblin", dir))
	assert.Equal(t, lua.LNumber(7), mgr.CallHook("goblin", "add", lua.LNumber(3), lua.LNumber(4)))
}

func TestManager_CallHook_MissingHookReturnsNil(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "empty.lua", `-- nothing here`)
	require.NoError(t, mgr.LoadScope("goblin", dir))
	assert.Equal(t, lua.LNil, mgr.CallHook("goblin", "nonexistent"))
}

func TestManager_CallHook_NoVMReturnsNil(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	assert.Equal(t, lua.LNil, mgr.CallHook("nowhere", "anything"))
}

func TestManager_CallHook_RuntimeErrorLogsWarn(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "bad.lua", `
		function bad_hook()
			error("intentional error")
		end
	`)
	require.NoError(t, mgr.LoadScope("goblin", dir))
	assert.Equal(t, lua.LNil, mgr.CallHook("goblin", "bad_hook"))
	assert.True(t, hasLevel(logs, zap.WarnLevel))
}

func TestManager_CallHook_BudgetResetsPerCall(t *testing.T) {
	mgr, logs := newTestManager(t, 5_000)
	dir := t.TempDir()
	writeLua(t, dir, "loop.lua", `
		function spin()
			while true do end
		end
		function ok()
			local n = 0
			for i = 1, 100 do n = n + i end
			return n
		end
	`)
	require.NoError(t, mgr.LoadScope("goblin", dir))

	assert.Equal(t, lua.LNil, mgr.CallHook("goblin", "spin"))
	assert.True(t, hasLevel(logs, zap.WarnLevel))
	for i := 0; i < 10; i++ {
		assert.Equal(t, lua.LNumber(5050), mgr.CallHook("goblin", "ok"))
	}
}

func TestManager_LoadDir_ScopesAndFallback(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "global.lua", `
		function who() return "global" end
		function shared() return 1 end
	`)
	writeLua(t, filepath.Join(dir, "wolf"), "wolf.lua", `
		function who() return "wolf" end
	`)
	require.NoError(t, mgr.LoadDir(dir))

	assert.Equal(t, []string{scripting.GlobalScope, "wolf"}, mgr.Scopes())
	assert.Equal(t, lua.LString("wolf"), mgr.CallHook("wolf", "who"))
	assert.Equal(t, lua.LString("global"), mgr.CallHook("goblin", "who"))
	// A scope that lacks the hook falls back to the global VM.
	assert.Equal(t, lua.LNumber(1), mgr.CallHook("wolf", "shared"))
}

func TestManager_LoadScope_EmptyDir(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	require.NoError(t, mgr.LoadScope("empty", t.TempDir()))
	assert.Equal(t, lua.LNil, mgr.CallHook("empty", "anything"))
}

func TestManager_LoadScope_InvalidLua(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "bad.lua", `this is not valid lua @@@@`)
	assert.Error(t, mgr.LoadScope("bad", dir))
	assert.Empty(t, mgr.Scopes())
}

func TestManager_LoadScope_MissingDir(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	assert.Error(t, mgr.LoadScope("x", filepath.Join(t.TempDir(), "missing")))
}

func TestManager_LoadScope_FilesRunInNameOrder(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "a.lua", `base_val = 10`)
	writeLua(t, dir, "b.lua", `function get_val() return base_val end`)
	require.NoError(t, mgr.LoadScope("ordered", dir))
	assert.Equal(t, lua.LNumber(10), mgr.CallHook("ordered", "get_val"))
}

func TestManager_LoadScope_ReplacesPrevious(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	first, second := t.TempDir(), t.TempDir()
	writeLua(t, first, "v.lua", `function v() return 1 end`)
	writeLua(t, second, "v.lua", `function v() return 2 end`)
	require.NoError(t, mgr.LoadScope("s", first))
	require.NoError(t, mgr.LoadScope("s", second))
	assert.Equal(t, lua.LNumber(2), mgr.CallHook("s", "v"))
}

func TestManager_Close_ReleasesScopes(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "init.lua", `function get_x() return 1 end`)
	require.NoError(t, mgr.LoadScope("s", dir))
	mgr.Close()
	assert.Equal(t, lua.LNil, mgr.CallHook("s", "get_x"))
	assert.Empty(t, mgr.Scopes())
}

func TestManager_ArenaModule(t *testing.T) {
	mgr, logs := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "m.lua", `
		function run(x)
			arena.log("clamping in " .. arena.scope)
			return arena.clamp(x, 0, 10)
		end
	`)
	require.NoError(t, mgr.LoadScope("wolf", dir))
	assert.Equal(t, lua.LNumber(10), mgr.CallHook("wolf", "run", lua.LNumber(42)))
	assert.Equal(t, lua.LNumber(0), mgr.CallHook("wolf", "run", lua.LNumber(-3)))
	assert.Equal(t, 2, logs.FilterMessage("scripting: script log").Len())
}

func TestNewManager_PanicsOnNilLogger(t *testing.T) {
	assert.Panics(t, func() { scripting.NewManager(0, nil) })
}

func TestManager_ConcurrentCalls(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	dir := t.TempDir()
	writeLua(t, dir, "hooks.lua", `function add(a, b) return a + b end`)
	require.NoError(t, mgr.LoadScope("s", dir))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				assert.Equal(t, lua.LNumber(3), mgr.CallHook("s", "add", lua.LNumber(1), lua.LNumber(2)))
			}
		}()
	}
	wg.Wait()
}

func TestProperty_CallHookUnknownScopeNeverPanics(t *testing.T) {
	mgr, _ := newTestManager(t, 0)
	rapid.Check(t, func(rt *rapid.T) {
		scope := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "scope")
		hook := rapid.StringMatching(`[a-z]{1,10}`).Draw(rt, "hook")
		assert.Equal(rt, lua.LNil, mgr.CallHook(scope, hook))
	})
}
