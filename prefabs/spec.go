package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SpriteSpec describes a procedurally drawn sprite. Its alpha also gives the
// entity's hitbox.
type SpriteSpec struct {
	Shape  string     `yaml:"shape"`
	Width  int        `yaml:"width"`
	Height int        `yaml:"height"`
	Color  *YAMLColor `yaml:"color"`
}

type AlienSpec struct {
	Name    string      `yaml:"name"`
	Sprite  SpriteSpec  `yaml:"sprite"`
	Explore ExploreSpec `yaml:"explore"`
	Hunt    HuntSpec    `yaml:"hunt"`
	Respawn RespawnSpec `yaml:"respawn"`
	FSM     FSMSpec     `yaml:"fsm"`
}

type ExploreSpec struct {
	Speed        float64 `yaml:"speed"`
	WanderChance int     `yaml:"wander_chance"`
	DetectRange  float64 `yaml:"detect_range"`
	SpawnMargin  float64 `yaml:"spawn_margin"`
}

type HuntSpec struct {
	BaseSpeed    float64 `yaml:"base_speed"`
	SpeedJitter  int     `yaml:"speed_jitter"`
	ApplySpeed   bool    `yaml:"apply_speed"`
	AttackRange  float64 `yaml:"attack_range"`
	AttackChance int     `yaml:"attack_chance"`
}

type RespawnSpec struct {
	MaxBatch int `yaml:"max_batch"`
}

// FSMSpec selects the alien brain. An empty Script uses the built-in states.
type FSMSpec struct {
	Script string `yaml:"script"`
}

func LoadAlienSpec() (*AlienSpec, error) {
	spec, err := LoadSpec[AlienSpec]("alien.yaml")
	if err != nil {
		return nil, err
	}
	spec.Normalize()
	return &spec, nil
}

// Normalize fills unset or out-of-range tunables from DefaultAlienSpec.
func (s *AlienSpec) Normalize() {
	def := DefaultAlienSpec()
	if s.Name == "" {
		s.Name = def.Name
	}
	s.Sprite.applyDefaults(def.Sprite)
	if s.Explore.Speed <= 0 {
		s.Explore.Speed = def.Explore.Speed
	}
	if s.Explore.WanderChance <= 0 {
		s.Explore.WanderChance = def.Explore.WanderChance
	}
	if s.Explore.DetectRange <= 0 {
		s.Explore.DetectRange = def.Explore.DetectRange
	}
	if s.Explore.SpawnMargin == 0 {
		s.Explore.SpawnMargin = def.Explore.SpawnMargin
	}
	if s.Hunt.BaseSpeed <= 0 {
		s.Hunt.BaseSpeed = def.Hunt.BaseSpeed
	}
	if s.Hunt.SpeedJitter < 0 {
		s.Hunt.SpeedJitter = 0
	}
	if s.Hunt.AttackRange <= 0 {
		s.Hunt.AttackRange = def.Hunt.AttackRange
	}
	if s.Hunt.AttackChance <= 0 {
		s.Hunt.AttackChance = def.Hunt.AttackChance
	}
	if s.Respawn.MaxBatch < 0 {
		s.Respawn.MaxBatch = 0
	}
}

// DefaultAlienSpec matches the embedded alien.yaml.
func DefaultAlienSpec() AlienSpec {
	return AlienSpec{
		Name:   "alien",
		Sprite: SpriteSpec{Shape: "saucer", Width: 40, Height: 20},
		Explore: ExploreSpec{
			Speed:        75,
			WanderChance: 20,
			DetectRange:  100,
			SpawnMargin:  50,
		},
		Hunt: HuntSpec{
			BaseSpeed:    75,
			SpeedJitter:  50,
			AttackRange:  15,
			AttackChance: 5,
		},
		Respawn: RespawnSpec{MaxBatch: 2},
	}
}

type PlayerSpec struct {
	Name          string     `yaml:"name"`
	Sprite        SpriteSpec `yaml:"sprite"`
	MaxHealth     int        `yaml:"max_health"`
	MaxSpeed      float64    `yaml:"max_speed"`
	Thrust        float64    `yaml:"thrust"`
	RotationSpeed float64    `yaml:"rotation_speed"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec]("player.yaml")
	if err != nil {
		return nil, err
	}
	spec.Normalize()
	return &spec, nil
}

func (s *PlayerSpec) Normalize() {
	def := DefaultPlayerSpec()
	if s.Name == "" {
		s.Name = def.Name
	}
	s.Sprite.applyDefaults(def.Sprite)
	if s.MaxHealth <= 0 {
		s.MaxHealth = def.MaxHealth
	}
	if s.MaxSpeed <= 0 {
		s.MaxSpeed = def.MaxSpeed
	}
	if s.Thrust <= 0 {
		s.Thrust = def.Thrust
	}
	if s.RotationSpeed <= 0 {
		s.RotationSpeed = def.RotationSpeed
	}
}

func DefaultPlayerSpec() PlayerSpec {
	return PlayerSpec{
		Name:          "player",
		Sprite:        SpriteSpec{Shape: "ship", Width: 24, Height: 32},
		MaxHealth:     100,
		MaxSpeed:      300,
		Thrust:        10,
		RotationSpeed: 360,
	}
}

type ProjectileSpec struct {
	Name   string     `yaml:"name"`
	Sprite SpriteSpec `yaml:"sprite"`
	Speed  float64    `yaml:"speed"`
}

func LoadProjectileSpec() (*ProjectileSpec, error) {
	spec, err := LoadSpec[ProjectileSpec]("projectile.yaml")
	if err != nil {
		return nil, err
	}
	spec.Normalize()
	return &spec, nil
}

func (s *ProjectileSpec) Normalize() {
	def := DefaultProjectileSpec()
	if s.Name == "" {
		s.Name = def.Name
	}
	s.Sprite.applyDefaults(def.Sprite)
	if s.Speed <= 0 {
		s.Speed = def.Speed
	}
}

func DefaultProjectileSpec() ProjectileSpec {
	return ProjectileSpec{
		Name:   "projectile",
		Sprite: SpriteSpec{Shape: "laser", Width: 4, Height: 12},
		Speed:  500,
	}
}

func (s *SpriteSpec) applyDefaults(def SpriteSpec) {
	if s.Shape == "" {
		s.Shape = def.Shape
	}
	if s.Width <= 0 {
		s.Width = def.Width
	}
	if s.Height <= 0 {
		s.Height = def.Height
	}
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
