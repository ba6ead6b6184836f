// Package ai holds the alien brain and the procedure that spawns aliens.
package ai

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/spacehunter/common"
	"github.com/milk9111/spacehunter/ecs"
	"github.com/milk9111/spacehunter/fsm"
	"github.com/milk9111/spacehunter/prefabs"
)

// Dice is the random source behind every AI roll. *rand.Rand satisfies it.
type Dice interface {
	Intn(n int) int
}

// Spawner builds aliens and places them in the world.
type Spawner struct {
	World  *ecs.World
	Spec   prefabs.AlienSpec
	Field  common.Playfield
	Dice   Dice
	Hitbox ecs.Hitbox
	Script *ScriptTemplate
	Logger *zap.Logger
}

func (s *Spawner) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// SpawnPoint picks one of the two off-screen anchors: left of the left edge
// or right of the right edge, at a random height.
func (s *Spawner) SpawnPoint() cp.Vector {
	return s.anchor(s.Spec.Explore.SpawnMargin)
}

func (s *Spawner) anchor(margin float64) cp.Vector {
	y := float64(s.Dice.Intn(max(1, int(s.Field.Height))))
	if s.Dice.Intn(2) == 0 {
		return cp.Vector{X: -margin, Y: y}
	}
	return cp.Vector{X: s.Field.Width + margin, Y: y}
}

// RandomPoint is a uniformly random point on screen, edges included.
func (s *Spawner) RandomPoint() cp.Vector {
	return cp.Vector{
		X: float64(s.Dice.Intn(int(s.Field.Width) + 1)),
		Y: float64(s.Dice.Intn(int(s.Field.Height) + 1)),
	}
}

// RespawnCount rolls how many aliens replace a destroyed one.
func (s *Spawner) RespawnCount() int {
	if s.Spec.Respawn.MaxBatch <= 0 {
		return 0
	}
	return s.Dice.Intn(s.Spec.Respawn.MaxBatch + 1)
}

// NewAlien builds an alien with its two states registered but none active.
// The states keep a copy of the current Spec, so later spec changes only
// affect aliens built afterwards.
func (s *Spawner) NewAlien() (*ecs.Entity, error) {
	alien := ecs.NewEntity(ecs.KindAlien, s.Hitbox)
	if s.Script != nil {
		states, err := s.Script.States(s, alien)
		if err != nil {
			return nil, fmt.Errorf("alien: scripted brain: %w", err)
		}
		for _, st := range states {
			alien.Brain.AddState(st)
		}
		return alien, nil
	}
	alien.Brain.AddState(NewExploring(s, s.Spec, alien))
	alien.Brain.AddState(NewHunting(s, s.Spec, alien))
	return alien, nil
}

// SpawnAliens adds count aliens at a single anchor chosen for the batch and
// starts each one exploring.
func (s *Spawner) SpawnAliens(count int) ([]ecs.ID, error) {
	if count <= 0 {
		return nil, nil
	}
	anchor := s.SpawnPoint()
	ids := make([]ecs.ID, 0, count)
	for i := 0; i < count; i++ {
		alien, err := s.NewAlien()
		if err != nil {
			return ids, err
		}
		id := s.World.AddEntity(alien)
		alien.Location = anchor
		if err := alien.Brain.SetState(StateExploring); err != nil {
			return ids, fmt.Errorf("alien %s: %w", id, err)
		}
		ids = append(ids, id)
	}
	s.logger().Debug("aliens spawned",
		zap.Int("count", count),
		zap.Float64("x", anchor.X),
		zap.Float64("y", anchor.Y),
	)
	return ids, nil
}

// stateIDs maps state names used by scripts and logs to ids.
var stateIDs = map[string]fsm.StateID{
	"exploring": StateExploring,
	"hunting":   StateHunting,
}
