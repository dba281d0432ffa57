package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// GlobalScope is the scope loaded from the top level of a script directory.
// CallHook falls back to it when the requested scope has no VM.
const GlobalScope = "__global__"

// vm pairs an LState with the lock that serializes its use.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// Manager owns one sandboxed LState per scope and dispatches hook calls.
// A scope is either GlobalScope or a monster template id.
//
// Manager is safe for concurrent use. Calls into the same scope are
// serialized; different scopes run concurrently.
type Manager struct {
	mu        sync.RWMutex
	vms       map[string]*vm
	instLimit int
	logger    *zap.Logger
}

// NewManager creates a Manager whose loads and hook calls are each limited to
// instLimit opcodes. instLimit <= 0 selects DefaultInstructionLimit.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a Manager with no scopes loaded.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:       make(map[string]*vm),
		instLimit: instLimit,
		logger:    logger,
	}
}

// LoadDir loads a script tree: *.lua files directly in dir form GlobalScope,
// and each subdirectory forms a scope named after it.
//
// Precondition: dir must be a readable directory.
// Postcondition: On error no scope from this call remains half-loaded.
func (m *Manager) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q: %w", dir, err)
	}
	if err := m.LoadScope(GlobalScope, dir); err != nil {
		return err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.LoadScope(e.Name(), filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadScope creates a sandboxed VM for scope, registers the arena module,
// then executes every *.lua file in dir in lexicographic order. A previously
// loaded VM for the same scope is replaced.
//
// Precondition: scope must be non-empty; dir must be a readable directory.
// Postcondition: Returns an error on any read or Lua load failure.
func (m *Manager) LoadScope(scope, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", dir, scope, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	L := NewSandboxedState()
	m.RegisterModules(L, scope)
	for _, path := range files {
		err := runBudgeted(L, m.instLimit, func() error { return L.DoFile(path) })
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}

	m.mu.Lock()
	old := m.vms[scope]
	m.vms[scope] = &vm{L: L}
	m.mu.Unlock()

	if old != nil {
		old.close()
	}
	m.logger.Debug("scripting: scope loaded",
		zap.String("scope", scope),
		zap.Int("files", len(files)),
	)
	return nil
}

// Scopes returns the loaded scope names in sorted order.
func (m *Manager) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.vms))
	for k := range m.vms {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CallHook calls the global Lua function hook in scope's VM, falling back to
// GlobalScope. It returns LNil when no VM defines the hook. Lua runtime
// errors, including an exhausted opcode budget, are logged at Warn and
// reported as LNil.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) lua.LValue {
	return m.CallHookWith(scope, hook, func(*lua.LState) []lua.LValue { return args })
}

// CallHookWith is CallHook with arguments built inside the target VM, which
// lets callers construct tables owned by that VM.
func (m *Manager) CallHookWith(scope, hook string, build func(L *lua.LState) []lua.LValue) lua.LValue {
	m.mu.RLock()
	v, ok := m.vms[scope]
	if !ok || !v.defines(hook) {
		v = m.vms[GlobalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		return lua.LNil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return lua.LNil
	}

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil
	}
	err := runBudgeted(v.L, m.instLimit, func() error {
		return v.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, build(v.L)...)
	})
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		v.L.SetTop(0)
		return lua.LNil
	}
	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret
}

func (v *vm) defines(hook string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.closed && v.L.GetGlobal(hook) != lua.LNil
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.closed {
		v.L.Close()
		v.closed = true
	}
}

// Close releases every VM.
//
// Postcondition: No scopes remain; later CallHook calls return LNil.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.close()
	}
}
