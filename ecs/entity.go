package ecs

import (
	"strconv"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/spacehunter/common"
	"github.com/milk9111/spacehunter/fsm"
)

// ID identifies an entity for the lifetime of a World. Ids are never reused;
// the zero ID means "no entity".
type ID uint64

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func (id ID) Valid() bool {
	return id > 0
}

// Kind is the closed set of simulated objects.
type Kind uint8

const (
	KindPlayer Kind = iota + 1
	KindAlien
	KindProjectile
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindAlien:
		return "alien"
	case KindProjectile:
		return "projectile"
	default:
		return "unknown"
	}
}

// Hitbox is the collision shape attached to an entity. Size is in pixels and
// the shape is centered on the entity location.
type Hitbox interface {
	Size() (w, h int)
}

// Entity is the kinematic record shared by every kind. Player and
// Projectile hold the kind specific parts and are nil for other kinds.
type Entity struct {
	id   ID
	Kind Kind

	Location    cp.Vector
	Destination cp.Vector
	Heading     cp.Vector
	Speed       float64

	Hitbox Hitbox
	Brain  *fsm.StateMachine

	// Target is the entity an agent is tracking. Aliens store the hunted
	// player here.
	Target ID

	Player     *Player
	Projectile *Projectile
}

func NewEntity(kind Kind, hitbox Hitbox) *Entity {
	return &Entity{Kind: kind, Hitbox: hitbox, Brain: fsm.New()}
}

func (e *Entity) ID() ID {
	if e == nil {
		return 0
	}
	return e.id
}

// Origin is the integer top-left corner of the hitbox.
func (e *Entity) Origin() (x, y int) {
	if e.Hitbox == nil {
		return int(e.Location.X), int(e.Location.Y)
	}
	w, h := e.Hitbox.Size()
	return int(e.Location.X) - w/2, int(e.Location.Y) - h/2
}

// Process advances the entity by dt seconds.
func (e *Entity) Process(dt float64) error {
	switch e.Kind {
	case KindPlayer:
		// players are moved by Steer before the world sweep
		return nil
	case KindProjectile:
		e.processProjectile(dt)
		return nil
	}

	if err := e.Brain.Think(); err != nil {
		return err
	}
	e.travel(dt)
	return nil
}

func (e *Entity) travel(dt float64) {
	if e.Speed <= 0 || dt <= 0 || e.Location.Equal(e.Destination) {
		return
	}
	loc, heading := common.Step(e.Location, e.Destination, dt*e.Speed)
	e.Location = loc
	e.Heading = heading
}
