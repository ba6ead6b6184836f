package sim

import (
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/spacehunter/ecs"
)

// EntityView is what the front end may read about one entity.
type EntityView struct {
	ID       ecs.ID
	Kind     ecs.Kind
	Location cp.Vector

	// Rotation and Health are only set for the player.
	Rotation float64
	Health   int

	// Heading is the projectile's flight direction.
	Heading cp.Vector
}

// View is a value copy of the drawable state after a tick.
type View struct {
	Entities  []EntityView
	Score     int
	MaxHealth int
	GameOver  bool

	// Kills holds where aliens were destroyed during the last Step.
	Kills []cp.Vector
}

// View copies the live entity set, ordered by id.
func (s *Simulation) View() View {
	v := View{
		Score:     s.resolver.Score,
		MaxHealth: s.player.Player.MaxHealth,
		GameOver:  s.gameOver,
		Kills:     append([]cp.Vector(nil), s.kills...),
	}
	entities := s.world.Entities()
	v.Entities = make([]EntityView, 0, len(entities))
	for _, e := range entities {
		ev := EntityView{ID: e.ID(), Kind: e.Kind, Location: e.Location}
		switch e.Kind {
		case ecs.KindPlayer:
			ev.Rotation = e.Player.Rotation
			ev.Health = e.Player.Health
		case ecs.KindProjectile:
			ev.Heading = e.Projectile.Direction
		}
		v.Entities = append(v.Entities, ev)
	}
	sort.Slice(v.Entities, func(i, j int) bool { return v.Entities[i].ID < v.Entities[j].ID })
	return v
}
