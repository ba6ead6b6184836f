package ecs

import "github.com/jakecoffman/cp"

// Projectile is the projectile specific part of an entity.
type Projectile struct {
	Direction cp.Vector
}

func NewProjectile(hitbox Hitbox) *Entity {
	e := NewEntity(KindProjectile, hitbox)
	e.Projectile = &Projectile{}
	return e
}

// Fire launches the projectile from origin. The direction is normalized and
// fixed for the projectile's lifetime.
func (e *Entity) Fire(origin, direction cp.Vector, speed float64) {
	if e.Projectile == nil {
		e.Projectile = &Projectile{}
	}
	if l := direction.Length(); l > 0 {
		direction = direction.Mult(1 / l)
	}
	e.Projectile.Direction = direction
	e.Location = origin
	e.Destination = origin
	e.Heading = direction
	e.Speed = speed
}

func (e *Entity) processProjectile(dt float64) {
	if e.Projectile == nil || dt <= 0 {
		return
	}
	e.Location = e.Location.Add(e.Projectile.Direction.Mult(e.Speed * dt))
	e.Destination = e.Location
}
