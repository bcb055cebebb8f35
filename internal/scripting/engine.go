// Package scripting runs the Lua hooks that tune a simulation without a
// rebuild: the torpedo failure policy, the viewing conditions over time and
// the escort gun doctrine. Every hook is optional; a missing or failing hook
// falls back to the Go default.
package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/seawolf/tactsim/internal/sensor"
)

// Hook names looked up in the Lua globals.
const (
	HookFailureChance = "torpedo_failure_chance"
	HookVisibility    = "environment_visibility"
	HookDoctrine      = "escort_doctrine"
)

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only (simulation loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	failure float64           // dud probability without a hook
	base    sensor.Conditions // conditions without a hook
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory, the top level first and then the feature directories.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log, base: sensor.Conditions{Visibility: 1}}

	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "weapon"), filepath.Join(scriptsDir, "environment"), filepath.Join(scriptsDir, "ai")} {
		if err := e.loadDir(dir); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source, typically to override a hook.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// Has reports whether a hook function is defined.
func (e *Engine) Has(hook string) bool {
	_, ok := e.vm.GetGlobal(hook).(*lua.LFunction)
	return ok
}

// SetFailureFallback sets the dud probability used when no failure hook
// is defined or it errors.
func (e *Engine) SetFailureFallback(p float64) { e.failure = clamp01(p) }

// SetBaseConditions sets the conditions passed to the visibility hook and
// used when it is missing.
func (e *Engine) SetBaseConditions(c sensor.Conditions) { e.base = c }

// call runs a hook with one context table and returns its single result,
// or false when the hook is missing or raised an error.
func (e *Engine) call(hook string, ctx *lua.LTable) (lua.LValue, bool) {
	fn, ok := e.vm.GetGlobal(hook).(*lua.LFunction)
	if !ok {
		return lua.LNil, false
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, ctx); err != nil {
		e.log.Error("lua hook error", zap.String("hook", hook), zap.Error(err))
		return lua.LNil, false
	}
	result := e.vm.Get(-1)
	e.vm.Pop(1)
	return result, true
}

// FailureChance asks torpedo_failure_chance{kind, run_length} for the dud
// probability of a torpedo reaching a hull.
func (e *Engine) FailureChance(kind string, runLength float64) float64 {
	t := e.vm.NewTable()
	t.RawSetString("kind", lua.LString(kind))
	t.RawSetString("run_length", lua.LNumber(runLength))
	t.RawSetString("default", lua.LNumber(e.failure))

	v, ok := e.call(HookFailureChance, t)
	if !ok {
		return e.failure
	}
	n, isNum := v.(lua.LNumber)
	if !isNum {
		e.log.Error("lua hook returned non-number", zap.String("hook", HookFailureChance))
		return e.failure
	}
	return clamp01(float64(n))
}

// Conditions asks environment_visibility{time, hour, visibility,
// max_view_distance} for the viewing conditions at a simulated time. The
// hook returns a table with the same two condition fields; a field left out
// keeps its base value.
func (e *Engine) Conditions(time float64) sensor.Conditions {
	t := e.vm.NewTable()
	t.RawSetString("time", lua.LNumber(time))
	t.RawSetString("hour", lua.LNumber(math.Mod(time/3600, 24)))
	t.RawSetString("visibility", lua.LNumber(e.base.Visibility))
	t.RawSetString("max_view_distance", lua.LNumber(e.base.MaxViewDistance))

	v, ok := e.call(HookVisibility, t)
	if !ok {
		return e.base
	}
	rt, isTable := v.(*lua.LTable)
	if !isTable {
		e.log.Error("lua hook returned non-table", zap.String("hook", HookVisibility))
		return e.base
	}
	out := e.base
	if n, ok := rt.RawGetString("visibility").(lua.LNumber); ok {
		out.Visibility = clamp01(float64(n))
	}
	if n, ok := rt.RawGetString("max_view_distance").(lua.LNumber); ok && n >= 0 {
		out.MaxViewDistance = float64(n)
	}
	return out
}

// EngageRange asks escort_doctrine{class, max_range} for the range at which
// a warship opens fire. The answer never exceeds the gun range.
func (e *Engine) EngageRange(class string, maxRange float64) float64 {
	t := e.vm.NewTable()
	t.RawSetString("class", lua.LString(class))
	t.RawSetString("max_range", lua.LNumber(maxRange))

	v, ok := e.call(HookDoctrine, t)
	if !ok {
		return maxRange
	}
	n, isNum := v.(lua.LNumber)
	if !isNum {
		return maxRange
	}
	return math.Max(0, math.Min(maxRange, float64(n)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
