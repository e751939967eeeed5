package trellis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ScriptEngine wraps a single gopher-lua VM shared by every Script
// component. Behaviours are Lua chunks returning a table of hook
// functions:
//
//	return {
//	  start  = function(self) self.state.t = 0 end,
//	  update = function(self, dt) self:move(0, dt, 0) end,
//	}
//
// Single-goroutine access only (game loop).
type ScriptEngine struct {
	vm         *lua.LState
	log        *zap.Logger
	behaviours map[string]*lua.LTable
}

// NewScriptEngine creates a VM with the standard libraries open.
func NewScriptEngine(log *zap.Logger) *ScriptEngine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &ScriptEngine{
		vm:         vm,
		log:        log,
		behaviours: make(map[string]*lua.LTable),
	}
}

// Define compiles source and registers the table it returns as behaviour
// name, replacing any earlier definition.
func (s *ScriptEngine) Define(name, source string) error {
	fn, err := s.vm.LoadString(source)
	if err != nil {
		return fmt.Errorf("compile behaviour %s: %w", name, err)
	}
	if err := s.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return fmt.Errorf("run behaviour %s: %w", name, err)
	}
	ret := s.vm.Get(-1)
	s.vm.Pop(1)
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return fmt.Errorf("behaviour %s returned %s, want table", name, ret.Type())
	}
	s.behaviours[name] = tbl
	s.log.Debug("defined lua behaviour", zap.String("name", name))
	return nil
}

// LoadDir defines one behaviour per .lua file in dir, named after the file
// without its extension. A missing directory is not an error.
func (s *ScriptEngine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read script dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		name := strings.TrimSuffix(entry.Name(), ".lua")
		if err := s.Define(name, string(src)); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Has reports whether behaviour name is defined.
func (s *ScriptEngine) Has(name string) bool {
	_, ok := s.behaviours[name]
	return ok
}

// Close shuts down the Lua VM.
func (s *ScriptEngine) Close() {
	s.vm.Close()
}

// Script runs a Lua behaviour as a component. Each hook named in the
// behaviour table is called with a per-component self table exposing:
//
//	self.name, self.state
//	self:position() / self:set_position(x, y, z) / self:move(x, y, z)
//	self:rotation() / self:set_rotation(p, y, r) / self:rotate(p, y, r)
//	self:set_enabled(bool) / self:log(msg)
//
// Hook names are the component hooks in snake_case: update, on_move,
// on_parent_move, on_audio_load and so on.
//
// Lua errors are logged and counted; they never propagate into the world.
type Script struct {
	BaseComponent

	engine    *ScriptEngine
	behaviour *lua.LTable
	name      string
	luaSelf   *lua.LTable
	errs      int
	lastErr   error
}

// Attach binds behaviour name from engine and calls its start hook.
func (sc *Script) Attach(engine *ScriptEngine, name string) error {
	tbl, ok := engine.behaviours[name]
	if !ok {
		return fmt.Errorf("attach script: unknown behaviour %q", name)
	}
	sc.engine = engine
	sc.behaviour = tbl
	sc.name = name
	sc.luaSelf = sc.newSelf()
	sc.call("start")
	return nil
}

// Behaviour returns the attached behaviour name.
func (sc *Script) Behaviour() string { return sc.name }

// Errors returns how many hook calls have failed.
func (sc *Script) Errors() int { return sc.errs }

// LastError returns the most recent hook failure.
func (sc *Script) LastError() error { return sc.lastErr }

// State returns the script's persistent state table, or nil before Attach.
func (sc *Script) State() *lua.LTable {
	if sc.luaSelf == nil {
		return nil
	}
	st, _ := sc.luaSelf.RawGetString("state").(*lua.LTable)
	return st
}

func (sc *Script) newSelf() *lua.LTable {
	vm := sc.engine.vm
	self := vm.NewTable()
	self.RawSetString("name", lua.LString(sc.Entity().Name()))
	self.RawSetString("state", vm.NewTable())

	vec := func(L *lua.LState) mgl32.Vec3 {
		return mgl32.Vec3{
			float32(L.CheckNumber(2)),
			float32(L.CheckNumber(3)),
			float32(L.CheckNumber(4)),
		}
	}
	push := func(L *lua.LState, v mgl32.Vec3) int {
		L.Push(lua.LNumber(v[0]))
		L.Push(lua.LNumber(v[1]))
		L.Push(lua.LNumber(v[2]))
		return 3
	}
	methods := map[string]lua.LGFunction{
		"position": func(L *lua.LState) int {
			return push(L, sc.Transform().LocalPosition())
		},
		"set_position": func(L *lua.LState) int {
			sc.Transform().SetPosition(vec(L))
			return 0
		},
		"move": func(L *lua.LState) int {
			sc.Transform().MoveAbsolute(vec(L))
			return 0
		},
		"rotation": func(L *lua.LState) int {
			return push(L, sc.Transform().LocalRotation())
		},
		"set_rotation": func(L *lua.LState) int {
			sc.Transform().SetRotation(vec(L))
			return 0
		},
		"rotate": func(L *lua.LState) int {
			sc.Transform().Rotate(vec(L))
			return 0
		},
		"set_enabled": func(L *lua.LState) int {
			sc.Entity().SetEnabled(L.CheckBool(2))
			return 0
		},
		"log": func(L *lua.LState) int {
			sc.engine.log.Info("lua",
				zap.String("entity", sc.Entity().Name()),
				zap.String("behaviour", sc.name),
				zap.String("msg", L.CheckString(2)))
			return 0
		},
	}
	for name, fn := range methods {
		self.RawSetString(name, vm.NewFunction(fn))
	}
	return self
}

// call invokes hook name with self and args if the behaviour defines it.
func (sc *Script) call(name string, args ...lua.LValue) {
	if sc.behaviour == nil || !sc.Bound() {
		return
	}
	fn, ok := sc.behaviour.RawGetString(name).(*lua.LFunction)
	if !ok {
		return
	}
	vm := sc.engine.vm
	if err := vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, append([]lua.LValue{sc.luaSelf}, args...)...); err != nil {
		sc.errs++
		sc.lastErr = err
		sc.engine.log.Error("lua hook error",
			zap.String("behaviour", sc.name),
			zap.String("hook", name),
			zap.String("entity", sc.Entity().Name()),
			zap.Error(err))
	}
}

func entityName(e *Entity) lua.LValue {
	if e == nil {
		return lua.LNil
	}
	return lua.LString(e.Name())
}

func vec3Args(v mgl32.Vec3) []lua.LValue {
	return []lua.LValue{lua.LNumber(v[0]), lua.LNumber(v[1]), lua.LNumber(v[2])}
}

func (sc *Script) Update(dt float32)        { sc.call("update", lua.LNumber(dt)) }
func (sc *Script) EditingUpdate(dt float32) { sc.call("editing_update", lua.LNumber(dt)) }
func (sc *Script) OnEnable()                { sc.call("on_enable") }
func (sc *Script) OnDisable()               { sc.call("on_disable") }
func (sc *Script) OnTransform()             { sc.call("on_transform") }
func (sc *Script) OnMove(d mgl32.Vec3)      { sc.call("on_move", vec3Args(d)...) }
func (sc *Script) OnRotate(d mgl32.Vec3)    { sc.call("on_rotate", vec3Args(d)...) }
func (sc *Script) OnScale(d mgl32.Vec3)     { sc.call("on_scale", vec3Args(d)...) }

func (sc *Script) OnParentTransform(parent *Entity) {
	sc.call("on_parent_transform", entityName(parent))
}

func (sc *Script) OnParentMove(parent *Entity, d mgl32.Vec3) {
	sc.call("on_parent_move", append([]lua.LValue{entityName(parent)}, vec3Args(d)...)...)
}

func (sc *Script) OnParentRotate(parent *Entity, d mgl32.Vec3) {
	sc.call("on_parent_rotate", append([]lua.LValue{entityName(parent)}, vec3Args(d)...)...)
}

func (sc *Script) OnParentScale(parent *Entity, d mgl32.Vec3) {
	sc.call("on_parent_scale", append([]lua.LValue{entityName(parent)}, vec3Args(d)...)...)
}

func (sc *Script) OnCollisionEnter(other *Entity) {
	sc.call("on_collision_enter", entityName(other))
}

func (sc *Script) OnCollisionExit(other *Entity) {
	sc.call("on_collision_exit", entityName(other))
}

func (sc *Script) OnTriggerEnter(other *Entity) { sc.call("on_trigger_enter", entityName(other)) }
func (sc *Script) OnTriggerExit(other *Entity)  { sc.call("on_trigger_exit", entityName(other)) }
func (sc *Script) InCollision(other *Entity)    { sc.call("in_collision", entityName(other)) }
func (sc *Script) InTrigger(other *Entity)      { sc.call("in_trigger", entityName(other)) }

func (sc *Script) OnAudioLoad(ev AudioEvent) {
	sc.call("on_audio_load", lua.LString(ev.Filename), entityName(ev.Source))
}

func (sc *Script) OnAudioPlay(ev AudioEvent) {
	sc.call("on_audio_play", lua.LString(ev.Filename), entityName(ev.Source))
}

func (sc *Script) OnAudioPause(ev AudioEvent) {
	sc.call("on_audio_pause", lua.LString(ev.Filename), entityName(ev.Source))
}

func (sc *Script) OnAudioEnd(ev AudioEvent) {
	sc.call("on_audio_end", lua.LString(ev.Filename), entityName(ev.Source))
}

// OnDestroy calls the destroy hook and drops the Lua references.
func (sc *Script) OnDestroy() {
	sc.call("on_destroy")
	sc.engine = nil
	sc.behaviour = nil
	sc.luaSelf = nil
}
