// Package combat settles projectile hits after the world sweep.
package combat

import (
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/spacehunter/ai"
	"github.com/milk9111/spacehunter/collision"
	"github.com/milk9111/spacehunter/common"
	"github.com/milk9111/spacehunter/ecs"
)

// Kill describes one alien destroyed by the projectile.
type Kill struct {
	Alien     ecs.ID
	Location  cp.Vector
	Respawned []ecs.ID
}

// Resolver tests the live projectile against every tracked alien. It is an
// ecs.System and runs once per tick after World.Process.
type Resolver struct {
	Spawner *ai.Spawner
	Field   common.Playfield
	Logger  *zap.Logger

	// Projectile is the tracked projectile id. Zero means none in flight.
	Projectile ecs.ID
	Score      int

	// OnKill runs after each kill has been applied.
	OnKill func(Kill)

	aliens []ecs.ID
}

func NewResolver(spawner *ai.Spawner, field common.Playfield, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{Spawner: spawner, Field: field, Logger: logger}
}

// Track adds alien ids to the set scanned each tick.
func (r *Resolver) Track(ids ...ecs.ID) {
	r.aliens = append(r.aliens, ids...)
}

// Aliens returns the tracked alien ids, including any removed since the last
// scan.
func (r *Resolver) Aliens() []ecs.ID {
	return r.aliens
}

// Update never fails. Missing aliens are skipped and a missing projectile
// makes the tick a no-op.
func (r *Resolver) Update(w *ecs.World, _ float64) error {
	projectile := w.Get(r.Projectile)
	if projectile == nil {
		r.Projectile = 0
		return nil
	}

	// out of bounds is recorded first and applied after the scan, so the
	// projectile can still score on the tick it leaves the screen
	leaving := !r.Field.Contains(projectile.Location)

	px, py := projectile.Origin()
	pmask := maskOf(projectile)
	pbox := pmask.Bounds(px, py)

	live := r.aliens[:0]
	var spawned []ecs.ID
	for _, id := range r.aliens {
		alien := w.Get(id)
		if alien == nil {
			continue
		}
		ax, ay := alien.Origin()
		amask := maskOf(alien)
		if !amask.Bounds(ax, ay).Intersects(pbox) || !amask.Overlap(pmask, px-ax, py-ay) {
			live = append(live, id)
			continue
		}
		spawned = append(spawned, r.kill(w, alien)...)
	}
	r.aliens = append(live, spawned...)

	if leaving {
		if err := w.Remove(r.Projectile); err != nil {
			r.Logger.Warn("projectile removal", zap.Stringer("id", r.Projectile), zap.Error(err))
		}
		r.Projectile = 0
	}
	return nil
}

func (r *Resolver) kill(w *ecs.World, alien *ecs.Entity) []ecs.ID {
	id := alien.ID()
	if err := w.Remove(id); err != nil {
		r.Logger.Warn("alien removal", zap.Stringer("id", id), zap.Error(err))
		return nil
	}
	r.Score++

	var ids []ecs.ID
	if r.Spawner != nil {
		var err error
		ids, err = r.Spawner.SpawnAliens(r.Spawner.RespawnCount())
		if err != nil {
			r.Logger.Error("alien respawn", zap.Error(err))
		}
	}

	r.Logger.Debug("alien destroyed",
		zap.Stringer("id", id),
		zap.Int("score", r.Score),
		zap.Int("respawned", len(ids)),
	)
	if r.OnKill != nil {
		r.OnKill(Kill{Alien: id, Location: alien.Location, Respawned: ids})
	}
	return ids
}

// maskOf returns the entity's pixel mask. Hitboxes that are not masks are
// treated as solid rectangles.
func maskOf(e *ecs.Entity) *collision.Mask {
	switch hb := e.Hitbox.(type) {
	case *collision.Mask:
		return hb
	case nil:
		return collision.Filled(1, 1)
	default:
		w, h := hb.Size()
		return collision.Filled(w, h)
	}
}
