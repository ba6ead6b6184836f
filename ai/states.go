package ai

import (
	"github.com/milk9111/spacehunter/ecs"
	"github.com/milk9111/spacehunter/fsm"
	"github.com/milk9111/spacehunter/prefabs"
)

const (
	StateExploring fsm.StateID = iota + 1
	StateHunting
)

// Exploring wanders the screen and watches for the player. Entering it sends
// the alien back towards a spawn anchor, including when it gives up a hunt.
type Exploring struct {
	fsm.Hooks
	env   *Spawner
	spec  prefabs.AlienSpec
	alien *ecs.Entity
}

func NewExploring(env *Spawner, spec prefabs.AlienSpec, alien *ecs.Entity) *Exploring {
	return &Exploring{env: env, spec: spec, alien: alien}
}

func (s *Exploring) ID() fsm.StateID { return StateExploring }
func (s *Exploring) Name() string    { return "exploring" }

func (s *Exploring) Enter() {
	s.alien.Speed = s.spec.Explore.Speed
	s.alien.Destination = s.env.anchor(s.spec.Explore.SpawnMargin)
}

func (s *Exploring) Do() {
	if s.env.Dice.Intn(s.spec.Explore.WanderChance) == 0 {
		s.alien.Destination = s.env.RandomPoint()
	}
}

func (s *Exploring) Check() (fsm.StateID, bool) {
	player := s.env.World.GetCloseEntity(ecs.KindPlayer, s.alien.Location, s.spec.Explore.DetectRange)
	if player == nil {
		return fsm.None, false
	}
	s.alien.Target = player.ID()
	return StateHunting, true
}

// Hunting homes in on the tracked player and attacks it when close.
type Hunting struct {
	fsm.Hooks
	env   *Spawner
	spec  prefabs.AlienSpec
	alien *ecs.Entity

	// PursuitSpeed is rolled on entry. It only drives movement when the
	// prefab sets hunt.apply_speed; otherwise the alien keeps its exploring
	// speed.
	PursuitSpeed float64
	GotKill      bool
}

func NewHunting(env *Spawner, spec prefabs.AlienSpec, alien *ecs.Entity) *Hunting {
	return &Hunting{env: env, spec: spec, alien: alien}
}

func (s *Hunting) ID() fsm.StateID { return StateHunting }
func (s *Hunting) Name() string    { return "hunting" }

func (s *Hunting) Enter() {
	hunt := s.spec.Hunt
	s.PursuitSpeed = hunt.BaseSpeed + float64(s.env.Dice.Intn(hunt.SpeedJitter+1))
	if hunt.ApplySpeed {
		s.alien.Speed = s.PursuitSpeed
	}
}

func (s *Hunting) Exit() {
	s.GotKill = false
}

func (s *Hunting) target() *ecs.Entity {
	e := s.env.World.Get(s.alien.Target)
	if e == nil || e.Player == nil {
		return nil
	}
	return e
}

func (s *Hunting) Do() {
	player := s.target()
	if player == nil {
		return
	}
	s.alien.Destination = player.Location

	if s.alien.Location.Distance(player.Location) >= s.spec.Hunt.AttackRange {
		return
	}
	if s.env.Dice.Intn(s.spec.Hunt.AttackChance) != 0 {
		return
	}
	player.Attacked()
	if player.Player.Health <= 0 {
		s.GotKill = true
	}
}

func (s *Hunting) Check() (fsm.StateID, bool) {
	if s.GotKill || s.target() == nil {
		return StateExploring, true
	}
	return fsm.None, false
}
