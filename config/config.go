// Package config loads game.toml and builds the logger.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/milk9111/spacehunter/common"
)

type Config struct {
	Screen     ScreenConfig     `toml:"screen"`
	Simulation SimulationConfig `toml:"simulation"`
	Prefabs    PrefabsConfig    `toml:"prefabs"`
	Logging    LoggingConfig    `toml:"logging"`
	Metrics    MetricsConfig    `toml:"metrics"`
}

type ScreenConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type SimulationConfig struct {
	TickRate      int   `toml:"tick_rate"` // ticks per second
	InitialAliens int   `toml:"initial_aliens"`
	Seed          int64 `toml:"seed"` // 0 = seed from the clock
}

type PrefabsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

type MetricsConfig struct {
	Listen string `toml:"listen"` // empty disables the /metrics endpoint
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

func defaults() *Config {
	return &Config{
		Screen: ScreenConfig{
			Width:  common.BaseWidth,
			Height: common.BaseHeight,
			Title:  "Space Hunter",
		},
		Simulation: SimulationConfig{
			TickRate:      60,
			InitialAliens: 30,
		},
		Prefabs: PrefabsConfig{
			Dir:   "prefabs",
			Watch: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) normalize() {
	def := defaults()
	if c.Screen.Width <= 0 {
		c.Screen.Width = def.Screen.Width
	}
	if c.Screen.Height <= 0 {
		c.Screen.Height = def.Screen.Height
	}
	if c.Simulation.TickRate <= 0 {
		c.Simulation.TickRate = def.Simulation.TickRate
	}
	if c.Simulation.InitialAliens < 0 {
		c.Simulation.InitialAliens = 0
	}
}

// Playfield is the logical screen the simulation runs on.
func (c *Config) Playfield() common.Playfield {
	return common.Playfield{Width: float64(c.Screen.Width), Height: float64(c.Screen.Height)}
}

func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
