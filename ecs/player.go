package ecs

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/spacehunter/common"
)

// Intent is one directional or fire command decoded by the input layer.
type Intent uint8

const (
	IntentTurnLeft Intent = iota + 1
	IntentTurnRight
	IntentThrustForward
	IntentThrustBackward
	IntentFire
)

func (i Intent) String() string {
	switch i {
	case IntentTurnLeft:
		return "turn_left"
	case IntentTurnRight:
		return "turn_right"
	case IntentThrustForward:
		return "thrust_forward"
	case IntentThrustBackward:
		return "thrust_backward"
	case IntentFire:
		return "fire"
	default:
		return "unknown"
	}
}

// Input is an intent with press or release semantics.
type Input struct {
	Intent  Intent
	Pressed bool
}

// PlayerTuning holds the player's movement constants.
type PlayerTuning struct {
	MaxHealth     int
	MaxSpeed      float64
	Thrust        float64
	RotationSpeed float64
}

// Player is the player specific part of an entity.
type Player struct {
	Health    int
	MaxHealth int

	// Rotation is in degrees and is never normalized.
	Rotation     float64
	Acceleration float64

	tuning      PlayerTuning
	rotationDir float64
	movementDir float64
}

func NewPlayer(tuning PlayerTuning, hitbox Hitbox) *Entity {
	e := NewEntity(KindPlayer, hitbox)
	e.Player = &Player{
		Health:    tuning.MaxHealth,
		MaxHealth: tuning.MaxHealth,
		tuning:    tuning,
	}
	return e
}

func (p *Player) Dead() bool {
	return p == nil || p.Health <= 0
}

// Facing is the unit vector the ship's nose points along.
func (p *Player) Facing() cp.Vector {
	if p == nil {
		return cp.Vector{}
	}
	rad := p.Rotation * math.Pi / 180
	return cp.Vector{X: -math.Sin(rad), Y: -math.Cos(rad)}
}

// Apply folds one input into the player's intent flags. Fire is handled by
// the caller.
func (p *Player) Apply(in Input) {
	if p == nil {
		return
	}
	switch in.Intent {
	case IntentTurnLeft:
		if in.Pressed {
			p.rotationDir = 1
		} else {
			p.rotationDir = 0
		}
	case IntentTurnRight:
		if in.Pressed {
			p.rotationDir = -1
		} else {
			p.rotationDir = 0
		}
	case IntentThrustForward:
		p.movementDir = -1
		if in.Pressed {
			p.Acceleration = p.tuning.Thrust
		} else {
			p.Acceleration = 0
		}
	case IntentThrustBackward:
		p.movementDir = 1
		if in.Pressed {
			p.Acceleration = -p.tuning.Thrust
		} else {
			p.Acceleration = 0
		}
	}
}

// Steer applies the player's intents for dt seconds and keeps the ship
// inside field. A dead player does not move.
func (e *Entity) Steer(dt float64, field common.Playfield) {
	p := e.Player
	if p == nil {
		return
	}
	if p.Dead() {
		e.Speed = 0
		e.Destination = e.Location
		return
	}

	e.Speed = common.Clamp(e.Speed+p.Acceleration, 0, p.tuning.MaxSpeed)
	p.Rotation += p.rotationDir * p.tuning.RotationSpeed * dt

	rad := p.Rotation * math.Pi / 180
	e.Heading = cp.Vector{X: math.Sin(rad), Y: math.Cos(rad)}.Mult(p.movementDir)
	e.Location = field.Clamp(e.Location.Add(e.Heading.Mult(e.Speed * dt)))
	e.Destination = e.Location
}

// Attacked takes one point of health. Health never drops below zero and a
// dead player stops.
func (e *Entity) Attacked() {
	p := e.Player
	if p == nil || p.Health <= 0 {
		return
	}
	p.Health--
	if p.Health <= 0 {
		p.Health = 0
		e.Speed = 0
	}
}
