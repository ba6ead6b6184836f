package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/milk9111/spacehunter/config"
	"github.com/milk9111/spacehunter/game"
	"github.com/milk9111/spacehunter/prefabs"
	"github.com/milk9111/spacehunter/sim"
)

func main() {
	configPath := flag.String("config", "config/game.toml", "path to game.toml")
	seed := flag.Int64("seed", 0, "random seed (overrides the config when non-zero)")
	metricsAddr := flag.String("metrics", "", "serve Prometheus metrics on this address (overrides the config)")
	noWatch := flag.Bool("nowatch", false, "disable prefab hot reload")
	flag.Parse()

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}
	if *metricsAddr != "" {
		cfg.Metrics.Listen = *metricsAddr
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	prefabs.DiskDir = cfg.Prefabs.Dir
	specs, err := sim.LoadSpecs()
	if err != nil {
		logger.Fatal("load prefabs", zap.Error(err))
	}

	metrics := sim.NewMetrics()
	s, err := sim.New(sim.Options{
		Field:         cfg.Playfield(),
		InitialAliens: cfg.Simulation.InitialAliens,
		Seed:          cfg.Simulation.Seed,
		Specs:         specs,
		Logger:        logger,
		Metrics:       metrics,
	})
	if err != nil {
		logger.Fatal("start simulation", zap.Error(err))
	}

	if cfg.Metrics.Listen != "" {
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.Metrics.Listen))
			if err := http.ListenAndServe(cfg.Metrics.Listen, metrics.Handler()); err != nil {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	var watcher *prefabs.Watcher
	if cfg.Prefabs.Watch && !*noWatch {
		watcher = watchPrefabs(cfg.Prefabs.Dir, logger)
		if watcher != nil {
			defer watcher.Close()
		}
	}

	g := game.New(game.Options{
		Simulation: s,
		Logger:     logger,
		Watcher:    watcher,
		TPS:        cfg.Simulation.TickRate,
	})
	if err := game.Run(g, cfg.Screen.Title); err != nil {
		logger.Fatal("game", zap.Error(err))
	}
}

// watchPrefabs watches the prefab override directories that exist.
func watchPrefabs(dir string, logger *zap.Logger) *prefabs.Watcher {
	var dirs []string
	for _, d := range []string{dir, dir + "/scripts"} {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("prefab dir", zap.String("dir", d), zap.Error(err))
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		logger.Warn("prefab watcher disabled", zap.Error(err))
		return nil
	}
	return w
}
