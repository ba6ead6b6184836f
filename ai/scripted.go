package ai

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/spacehunter/ecs"
	"github.com/milk9111/spacehunter/fsm"
	"github.com/milk9111/spacehunter/prefabs"
)

const scriptDispatch = `
if __phase == "enter" {
	on_enter(__engine, __data, __current)
} else if __phase == "update" {
	update(__engine, __data, __current)
} else if __phase == "check" {
	check(__engine, __data, __current)
} else if __phase == "exit" {
	on_exit(__engine, __data, __current)
}
`

// ScriptTemplate is a compiled alien script. Each alien runs its own clone
// so script globals never leak between aliens.
type ScriptTemplate struct {
	Path     string
	compiled *tengo.Compiled
}

// LoadScript compiles a tengo script from the prefabs directory. The script
// defines on_enter, update, check and on_exit, each taking
// (engine, data, state).
func LoadScript(path string) (*ScriptTemplate, error) {
	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("ai: load script %s: %w", path, err)
	}
	return CompileScript(path, src)
}

func CompileScript(path string, src []byte) (*ScriptTemplate, error) {
	script := tengo.NewScript(append(append([]byte{}, src...), []byte("\n"+scriptDispatch)...))
	for _, name := range []string{"__phase", "__current"} {
		if err := script.Add(name, ""); err != nil {
			return nil, err
		}
	}
	for _, name := range []string{"__engine", "__data"} {
		if err := script.Add(name, map[string]any{}); err != nil {
			return nil, err
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("ai: compile script %s: %w", path, err)
	}
	return &ScriptTemplate{Path: path, compiled: compiled}, nil
}

// scriptRuntime is one alien's instance of the script.
type scriptRuntime struct {
	compiled *tengo.Compiled
	engine   *tengo.ImmutableMap
	data     *tengo.Map
	pending  string
	path     string
	alien    *ecs.Entity
	log      *zap.Logger
}

// States returns the exploring and hunting states for alien, both driven by
// the same script instance.
func (t *ScriptTemplate) States(env *Spawner, alien *ecs.Entity) ([]fsm.State, error) {
	if t == nil || t.compiled == nil {
		return nil, fmt.Errorf("ai: nil script")
	}
	rt := &scriptRuntime{
		compiled: t.compiled.Clone(),
		data:     &tengo.Map{Value: map[string]tengo.Object{}},
		path:     t.Path,
		alien:    alien,
		log:      env.logger(),
	}
	rt.engine = buildScriptEngine(env, alien, rt)

	states := make([]fsm.State, 0, len(stateIDs))
	for _, name := range []string{"exploring", "hunting"} {
		states = append(states, &ScriptedState{id: stateIDs[name], name: name, rt: rt})
	}
	return states, nil
}

func (rt *scriptRuntime) run(phase, current string) error {
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", rt.engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__data", rt.data); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current", current); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (rt *scriptRuntime) runLogged(phase, current string) error {
	err := rt.run(phase, current)
	if err != nil {
		rt.log.Warn("ai script error",
			zap.String("script", rt.path),
			zap.String("phase", phase),
			zap.String("state", current),
			zap.Stringer("alien", rt.alien.ID()),
			zap.Error(err),
		)
	}
	return err
}

// ScriptedState forwards one state's hooks to the alien's script.
type ScriptedState struct {
	id   fsm.StateID
	name string
	rt   *scriptRuntime
}

func (s *ScriptedState) ID() fsm.StateID { return s.id }
func (s *ScriptedState) Name() string    { return s.name }
func (s *ScriptedState) Enter()          { _ = s.rt.runLogged("enter", s.name) }
func (s *ScriptedState) Exit()           { _ = s.rt.runLogged("exit", s.name) }
func (s *ScriptedState) Do()             { _ = s.rt.runLogged("update", s.name) }

// Check runs the script's check hook and reports the state it asked for via
// engine.transition. A hook that fails discards any transition it queued. An
// unknown name yields an id the machine rejects.
func (s *ScriptedState) Check() (fsm.StateID, bool) {
	s.rt.pending = ""
	err := s.rt.runLogged("check", s.name)
	next := s.rt.pending
	s.rt.pending = ""
	if err != nil || next == "" {
		return fsm.None, false
	}
	id, ok := s.rt.alien.Brain.Lookup(next)
	if !ok {
		return fsm.StateID(255), true
	}
	return id, true
}

// Data exposes the script's per-alien data map.
func (s *ScriptedState) Data() map[string]tengo.Object {
	return s.rt.data.Value
}

func buildScriptEngine(env *Spawner, alien *ecs.Entity, rt *scriptRuntime) *tengo.ImmutableMap {
	spec := env.Spec
	config := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"explore_speed":     &tengo.Float{Value: spec.Explore.Speed},
		"wander_chance":     &tengo.Int{Value: int64(spec.Explore.WanderChance)},
		"detect_range":      &tengo.Float{Value: spec.Explore.DetectRange},
		"hunt_base_speed":   &tengo.Float{Value: spec.Hunt.BaseSpeed},
		"hunt_speed_jitter": &tengo.Int{Value: int64(spec.Hunt.SpeedJitter)},
		"hunt_apply_speed":  boolObject(spec.Hunt.ApplySpeed),
		"attack_range":      &tengo.Float{Value: spec.Hunt.AttackRange},
		"attack_chance":     &tengo.Int{Value: int64(spec.Hunt.AttackChance)},
	}}

	values := map[string]tengo.Object{
		"config": config,
		"screen": &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"width":  &tengo.Int{Value: int64(env.Field.Width)},
			"height": &tengo.Int{Value: int64(env.Field.Height)},
		}},
	}

	fn := func(name string, f func(args ...tengo.Object) (tengo.Object, error)) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("transition", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = name
		return tengo.TrueValue, nil
	})
	fn("randint", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		lo, _ := tengo.ToInt(args[0])
		hi, _ := tengo.ToInt(args[1])
		if hi < lo {
			lo, hi = hi, lo
		}
		return &tengo.Int{Value: int64(lo + env.Dice.Intn(hi-lo+1))}, nil
	})
	fn("speed", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: alien.Speed}, nil
	})
	fn("set_speed", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		v, _ := tengo.ToFloat64(args[0])
		if v < 0 {
			v = 0
		}
		alien.Speed = v
		return tengo.UndefinedValue, nil
	})
	fn("location", func(args ...tengo.Object) (tengo.Object, error) {
		return point(alien.Location.X, alien.Location.Y), nil
	})
	fn("set_destination", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, _ := tengo.ToFloat64(args[0])
		y, _ := tengo.ToFloat64(args[1])
		alien.Destination.X, alien.Destination.Y = x, y
		return tengo.UndefinedValue, nil
	})
	fn("spawn_point", func(args ...tengo.Object) (tengo.Object, error) {
		p := env.anchor(spec.Explore.SpawnMargin)
		return point(p.X, p.Y), nil
	})
	fn("distance", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, _ := tengo.ToFloat64(args[0])
		y, _ := tengo.ToFloat64(args[1])
		return &tengo.Float{Value: alien.Location.Distance(cp.Vector{X: x, Y: y})}, nil
	})
	fn("nearest_player", func(args ...tengo.Object) (tengo.Object, error) {
		rng := spec.Explore.DetectRange
		if len(args) > 0 {
			rng, _ = tengo.ToFloat64(args[0])
		}
		p := env.World.GetCloseEntity(ecs.KindPlayer, alien.Location, rng)
		if p == nil {
			return tengo.UndefinedValue, nil
		}
		return playerObject(p), nil
	})
	fn("player", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, _ := tengo.ToInt64(args[0])
		p := env.World.Get(ecs.ID(id))
		if p == nil || p.Player == nil {
			return tengo.UndefinedValue, nil
		}
		return playerObject(p), nil
	})
	fn("target", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(alien.Target)}, nil
	})
	fn("set_target", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, _ := tengo.ToInt64(args[0])
		alien.Target = ecs.ID(id)
		return tengo.UndefinedValue, nil
	})
	fn("attack", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, _ := tengo.ToInt64(args[0])
		p := env.World.Get(ecs.ID(id))
		if p == nil || p.Player == nil {
			return tengo.UndefinedValue, nil
		}
		p.Attacked()
		return &tengo.Int{Value: int64(p.Player.Health)}, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

func point(x, y float64) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"x": &tengo.Float{Value: x},
		"y": &tengo.Float{Value: y},
	}}
}

func playerObject(p *ecs.Entity) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"id":     &tengo.Int{Value: int64(p.ID())},
		"x":      &tengo.Float{Value: p.Location.X},
		"y":      &tengo.Float{Value: p.Location.Y},
		"health": &tengo.Int{Value: int64(p.Player.Health)},
	}}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(o tengo.Object) string {
	if s, ok := tengo.ToString(o); ok {
		return s
	}
	return ""
}
