// Package sim owns one game session: the world, the player, the tracked
// projectile, the score and the fixed per-tick order in which they advance.
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/spacehunter/ai"
	"github.com/milk9111/spacehunter/assets"
	"github.com/milk9111/spacehunter/collision"
	"github.com/milk9111/spacehunter/combat"
	"github.com/milk9111/spacehunter/common"
	"github.com/milk9111/spacehunter/ecs"
	"github.com/milk9111/spacehunter/prefabs"
)

const DefaultInitialAliens = 30

// Specs groups the prefab tunables a session is built from.
type Specs struct {
	Alien      prefabs.AlienSpec
	Player     prefabs.PlayerSpec
	Projectile prefabs.ProjectileSpec
}

func DefaultSpecs() Specs {
	return Specs{
		Alien:      prefabs.DefaultAlienSpec(),
		Player:     prefabs.DefaultPlayerSpec(),
		Projectile: prefabs.DefaultProjectileSpec(),
	}
}

// Normalize fills each spec from its defaults. A spec left at its zero value
// is replaced by the default outright.
func (s *Specs) Normalize() {
	if s.Alien == (prefabs.AlienSpec{}) {
		s.Alien = prefabs.DefaultAlienSpec()
	}
	if s.Player == (prefabs.PlayerSpec{}) {
		s.Player = prefabs.DefaultPlayerSpec()
	}
	if s.Projectile == (prefabs.ProjectileSpec{}) {
		s.Projectile = prefabs.DefaultProjectileSpec()
	}
	s.Alien.Normalize()
	s.Player.Normalize()
	s.Projectile.Normalize()
}

// LoadSpecs reads all three prefabs.
func LoadSpecs() (Specs, error) {
	alien, err := prefabs.LoadAlienSpec()
	if err != nil {
		return Specs{}, err
	}
	player, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return Specs{}, err
	}
	projectile, err := prefabs.LoadProjectileSpec()
	if err != nil {
		return Specs{}, err
	}
	return Specs{Alien: *alien, Player: *player, Projectile: *projectile}, nil
}

type Options struct {
	Field         common.Playfield
	InitialAliens int
	Seed          int64
	Specs         Specs

	// Dice overrides the seeded random source.
	Dice    ai.Dice
	Logger  *zap.Logger
	Metrics *Metrics
}

// Simulation is the explicit context every tick runs against.
type Simulation struct {
	SessionID uuid.UUID

	field    common.Playfield
	specs    Specs
	dice     ai.Dice
	initial  int
	baseLog  *zap.Logger
	log      *zap.Logger
	metrics  *Metrics
	hitboxes hitboxes

	world     *ecs.World
	player    *ecs.Entity
	spawner   *ai.Spawner
	resolver  *combat.Resolver
	scheduler *ecs.Scheduler

	inputs   []ecs.Input
	kills    []cp.Vector
	gameOver bool
}

type hitboxes struct {
	alien, player, projectile *collision.Mask
}

func New(opts Options) (*Simulation, error) {
	if opts.Field.Width <= 0 || opts.Field.Height <= 0 {
		opts.Field = common.DefaultPlayfield()
	}
	if opts.InitialAliens < 0 {
		opts.InitialAliens = 0
	}
	if opts.Dice == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Dice = rand.New(rand.NewSource(seed))
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}

	s := &Simulation{
		field:   opts.Field,
		dice:    opts.Dice,
		initial: opts.InitialAliens,
		baseLog: opts.Logger,
		metrics: opts.Metrics,
	}
	s.scheduler = ecs.NewScheduler(
		ecs.SystemFunc(s.updatePlayer),
		ecs.SystemFunc(processWorld),
		ecs.SystemFunc(s.resolve),
	)
	if err := s.SetSpecs(opts.Specs); err != nil {
		return nil, err
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSpecs swaps the tunables. Aliens spawned afterwards use the new alien
// spec; the player and live aliens keep theirs until Reset.
func (s *Simulation) SetSpecs(specs Specs) error {
	specs.Normalize()
	var script *ai.ScriptTemplate
	if specs.Alien.FSM.Script != "" {
		var err error
		script, err = ai.LoadScript(specs.Alien.FSM.Script)
		if err != nil {
			return fmt.Errorf("sim: alien brain: %w", err)
		}
	}

	s.specs = specs
	s.hitboxes = hitboxes{
		alien:      HitboxFor(specs.Alien.Sprite),
		player:     HitboxFor(specs.Player.Sprite),
		projectile: HitboxFor(specs.Projectile.Sprite),
	}
	if s.spawner != nil {
		s.spawner.Spec = specs.Alien
		s.spawner.Hitbox = s.hitboxes.alien
		s.spawner.Script = script
	} else {
		s.spawner = &ai.Spawner{
			Spec:   specs.Alien,
			Field:  s.field,
			Dice:   s.dice,
			Hitbox: s.hitboxes.alien,
			Script: script,
		}
	}
	return nil
}

// ReloadSpecs reloads the prefabs from disk or the embedded copies.
func (s *Simulation) ReloadSpecs() error {
	specs, err := LoadSpecs()
	if err != nil {
		return err
	}
	if err := s.SetSpecs(specs); err != nil {
		return err
	}
	s.log.Info("prefabs reloaded")
	return nil
}

func (s *Simulation) Specs() Specs {
	return s.specs
}

// HitboxFor rasterizes a sprite and returns its pixel mask.
func HitboxFor(spec prefabs.SpriteSpec) *collision.Mask {
	return collision.FromImage(assets.Render(spec.Shape, spec.Width, spec.Height), collision.DefaultAlphaThreshold)
}

// Reset tears the session down and starts a new one: fresh world, new
// player at the center, score zero and the initial alien batch.
func (s *Simulation) Reset() error {
	s.SessionID = uuid.New()
	s.log = s.baseLog.With(zap.String("session", s.SessionID.String()))
	s.world = ecs.NewWorld()
	s.inputs = s.inputs[:0]
	s.kills = s.kills[:0]
	s.gameOver = false

	p := s.specs.Player
	s.player = ecs.NewPlayer(ecs.PlayerTuning{
		MaxHealth:     p.MaxHealth,
		MaxSpeed:      p.MaxSpeed,
		Thrust:        p.Thrust,
		RotationSpeed: p.RotationSpeed,
	}, s.hitboxes.player)
	s.world.AddEntity(s.player)
	s.player.Location = s.field.Center()
	s.player.Destination = s.player.Location

	s.spawner.World = s.world
	s.spawner.Logger = s.log
	s.resolver = combat.NewResolver(s.spawner, s.field, s.log)
	s.resolver.OnKill = func(k combat.Kill) {
		s.metrics.AliensDestroyed.Inc()
		s.kills = append(s.kills, k.Location)
	}

	ids, err := s.spawner.SpawnAliens(s.initial)
	s.resolver.Track(ids...)
	s.drainEvents()
	s.metrics.Score.Set(0)
	if err != nil {
		return fmt.Errorf("sim: initial aliens: %w", err)
	}
	s.log.Info("session started", zap.Int("aliens", len(ids)))
	return nil
}

// Step advances the session by dt seconds. Inputs are applied first, then
// the player moves, then every entity is processed, then hits are resolved.
// Errors are wiring defects; they are logged and returned but never stop
// the tick.
func (s *Simulation) Step(dt float64, inputs ...ecs.Input) error {
	start := time.Now()
	s.inputs = append(s.inputs[:0], inputs...)
	s.kills = s.kills[:0]
	health := s.player.Player.Health

	err := s.scheduler.Update(s.world, dt)
	if err != nil {
		s.log.Warn("tick errors", zap.Error(err))
	}

	if lost := health - s.player.Player.Health; lost > 0 {
		s.metrics.PlayerHits.Add(float64(lost))
	}
	s.drainEvents()
	s.metrics.Score.Set(float64(s.resolver.Score))
	s.metrics.TickSeconds.Observe(time.Since(start).Seconds())

	if !s.gameOver && s.player.Player.Dead() {
		s.gameOver = true
		s.log.Info("game over", zap.Int("score", s.resolver.Score))
	}
	return err
}

func (s *Simulation) updatePlayer(_ *ecs.World, dt float64) error {
	for _, in := range s.inputs {
		if in.Intent == ecs.IntentFire {
			if in.Pressed {
				s.Fire()
			}
			continue
		}
		s.player.Player.Apply(in)
	}
	s.player.Steer(dt, s.field)
	return nil
}

func processWorld(w *ecs.World, dt float64) error {
	return w.Process(dt)
}

func (s *Simulation) resolve(w *ecs.World, dt float64) error {
	return s.resolver.Update(w, dt)
}

// Fire launches a new projectile from the player along its facing. The
// previous projectile, if still in flight, is removed. A dead player cannot
// fire.
func (s *Simulation) Fire() ecs.ID {
	if s.player.Player.Dead() {
		return 0
	}
	if prev := s.resolver.Projectile; prev.Valid() {
		if err := s.world.Remove(prev); err != nil && !errors.Is(err, ecs.ErrNotFound) {
			s.log.Warn("projectile replace", zap.Error(err))
		}
	}
	p := ecs.NewProjectile(s.hitboxes.projectile)
	id := s.world.AddEntity(p)
	p.Fire(s.player.Location, s.player.Player.Facing(), s.specs.Projectile.Speed)
	s.resolver.Projectile = id
	s.metrics.ProjectilesFired.Inc()
	return id
}

func (s *Simulation) drainEvents() {
	for _, evt := range s.world.Events().Drain() {
		if evt.Kind == ecs.EventSpawned && evt.Of == ecs.KindAlien {
			s.metrics.AliensSpawned.Inc()
		}
	}
	s.metrics.observeWorld(s.world)
}

func (s *Simulation) World() *ecs.World       { return s.world }
func (s *Simulation) Player() *ecs.Entity     { return s.player }
func (s *Simulation) Field() common.Playfield { return s.field }
func (s *Simulation) Score() int              { return s.resolver.Score }
func (s *Simulation) GameOver() bool          { return s.gameOver }
func (s *Simulation) Metrics() *Metrics       { return s.metrics }
func (s *Simulation) Logger() *zap.Logger     { return s.log }

// Projectile returns the projectile in flight, or nil.
func (s *Simulation) Projectile() *ecs.Entity {
	return s.world.Get(s.resolver.Projectile)
}

// Aliens returns the ids the resolver tracks.
func (s *Simulation) Aliens() []ecs.ID {
	return s.resolver.Aliens()
}
