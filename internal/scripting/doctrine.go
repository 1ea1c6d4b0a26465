package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wasteland/internal/game/ai"
)

// Doctrines is an ai.Doctrine backed by Lua functions. Each global function
// defined by the loaded scripts is a doctrine named after the function.
//
// A doctrine function receives (situation, decision) tables and returns a
// table of overrides, or nil to keep the decision:
//
//	function ambusher(situation, decision)
//	  if situation.enemies > situation.allies then
//	    return { take_cover = true, target = "weakest" }
//	  end
//	end
//
// Doctrines is safe for concurrent use; calls are serialized on one LState.
type Doctrines struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	logger *zap.Logger
}

// NewDoctrines creates an empty Doctrines with its own sandboxed state.
//
// Precondition: instLimit >= 0; 0 uses DefaultInstructionLimit.
// Postcondition: logger nil is replaced with a no-op logger.
func NewDoctrines(instLimit int, logger *zap.Logger) *Doctrines {
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	L := NewSandboxedState()
	registerModules(L, logger)
	return &Doctrines{L: L, limit: instLimit, logger: logger}
}

// LoadDoctrines creates Doctrines and executes every *.lua file in dir in
// lexicographic order.
//
// Precondition: dir must be a readable directory.
func LoadDoctrines(dir string, instLimit int, logger *zap.Logger) (*Doctrines, error) {
	d := NewDoctrines(instLimit, logger)
	if err := d.LoadDir(dir); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// LoadDir executes every *.lua file in dir in lexicographic order.
func (d *Doctrines) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading doctrine dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, path := range files {
		if err := limited(d.L, d.limit, func() error { return d.L.DoFile(path) }); err != nil {
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}
	return nil
}

// LoadString executes src in the doctrine state.
func (d *Doctrines) LoadString(src string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := limited(d.L, d.limit, func() error { return d.L.DoString(src) }); err != nil {
		return fmt.Errorf("scripting: loading doctrine source: %w", err)
	}
	return nil
}

// Has reports whether a doctrine function named name is defined.
func (d *Doctrines) Has(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.L.GetGlobal(name).(*lua.LFunction)
	return ok
}

// Names returns the sorted names of every script-defined global function.
func (d *Doctrines) Names() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var names []string
	d.L.G.Global.ForEach(func(k, v lua.LValue) {
		if fn, ok := v.(*lua.LFunction); ok && !fn.IsG {
			names = append(names, k.String())
		}
	})
	sort.Strings(names)
	return names
}

// Close releases the Lua state. Closing a nil Doctrines is a no-op.
func (d *Doctrines) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.L.Close()
}

// Advise calls the Lua function named ws.Self.Doctrine and applies the
// returned overrides to dec.
//
// Postcondition: on error dec is returned unchanged. Lua runtime errors and
// instruction-limit overruns are logged at warn level and returned.
func (d *Doctrines) Advise(ws *ai.WorldState, dec ai.Decision) (ai.Decision, error) {
	name := ws.Self.Doctrine
	d.mu.Lock()
	defer d.mu.Unlock()

	fn, ok := d.L.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return dec, fmt.Errorf("scripting: doctrine %q is not defined", name)
	}
	situation := situationTable(d.L, ws)
	current := decisionTable(d.L, dec)

	var ret lua.LValue
	err := limited(d.L, d.limit, func() error {
		if err := d.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, situation, current); err != nil {
			return err
		}
		ret = d.L.Get(-1)
		d.L.Pop(1)
		return nil
	})
	if err != nil {
		d.logger.Warn("scripting: doctrine runtime error",
			zap.String("doctrine", name),
			zap.String("combatant", ws.Self.ID),
			zap.Error(err),
		)
		return dec, fmt.Errorf("scripting: doctrine %q: %w", name, err)
	}

	switch v := ret.(type) {
	case *lua.LNilType:
		return dec, nil
	case *lua.LTable:
		return applyOverrides(v, dec, name)
	default:
		return dec, fmt.Errorf("scripting: doctrine %q returned %s, want table or nil", name, ret.Type())
	}
}

func situationTable(L *lua.LState, ws *ai.WorldState) *lua.LTable {
	self := L.NewTable()
	self.RawSetString("id", lua.LString(ws.Self.ID))
	self.RawSetString("name", lua.LString(ws.Self.Name))
	self.RawSetString("health", lua.LNumber(ws.Self.Health))
	self.RawSetString("max_health", lua.LNumber(ws.Self.MaxHealth))
	self.RawSetString("health_pct", lua.LNumber(ws.Self.HealthPercent()))
	self.RawSetString("intelligence", lua.LNumber(ws.Self.Intelligence))

	t := L.NewTable()
	t.RawSetString("self", self)
	t.RawSetString("allies", lua.LNumber(ws.SideSize()))
	t.RawSetString("enemies", lua.LNumber(len(ws.LivingEnemies())))
	t.RawSetString("terrain", lua.LString(ws.Terrain))
	return t
}

func decisionTable(L *lua.LState, d ai.Decision) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("take_cover", lua.LBool(d.TakeCover))
	t.RawSetString("attempt_flank", lua.LBool(d.AttemptFlank))
	t.RawSetString("use_terrain_advantage", lua.LBool(d.UseTerrainAdvantage))
	t.RawSetString("target", lua.LString(d.Target.String()))
	t.RawSetString("roll", lua.LNumber(d.Roll))
	return t
}

func applyOverrides(t *lua.LTable, d ai.Decision, name string) (ai.Decision, error) {
	out := d
	for key, field := range map[string]*bool{
		"take_cover":            &out.TakeCover,
		"attempt_flank":         &out.AttemptFlank,
		"use_terrain_advantage": &out.UseTerrainAdvantage,
	} {
		switch v := t.RawGetString(key).(type) {
		case *lua.LNilType:
		case lua.LBool:
			*field = bool(v)
		default:
			return d, fmt.Errorf("scripting: doctrine %q: %s must be a boolean", name, key)
		}
	}
	switch v := t.RawGetString("target").(type) {
	case *lua.LNilType:
	case lua.LString:
		p, ok := ai.ParseTargetPriority(string(v))
		if !ok {
			return d, fmt.Errorf("scripting: doctrine %q: unknown target %q", name, string(v))
		}
		out.Target = p
	default:
		return d, fmt.Errorf("scripting: doctrine %q: target must be a string", name)
	}
	return out, nil
}
