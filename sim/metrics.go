package sim

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/milk9111/spacehunter/ecs"
)

const namespace = "spacehunter"

// Metrics holds the game's collectors on a private registry so several
// simulations can coexist in one process.
type Metrics struct {
	Registry *prometheus.Registry

	Score            prometheus.Gauge
	AliensSpawned    prometheus.Counter
	AliensDestroyed  prometheus.Counter
	PlayerHits       prometheus.Counter
	ProjectilesFired prometheus.Counter
	Entities         *prometheus.GaugeVec
	TickSeconds      prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Aliens destroyed in the current session.",
		}),
		AliensSpawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aliens_spawned_total",
			Help:      "Aliens added to the world.",
		}),
		AliensDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aliens_destroyed_total",
			Help:      "Aliens removed by projectile hits.",
		}),
		PlayerHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "player_hits_total",
			Help:      "Health points the player lost to alien attacks.",
		}),
		ProjectilesFired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "projectiles_fired_total",
			Help:      "Projectiles fired by the player.",
		}),
		Entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Live entities by kind.",
		}, []string{"kind"}),
		TickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_seconds",
			Help:      "Wall time spent in one simulation step.",
			Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025},
		}),
	}
	m.Registry.MustRegister(
		m.Score,
		m.AliensSpawned,
		m.AliensDestroyed,
		m.PlayerHits,
		m.ProjectilesFired,
		m.Entities,
		m.TickSeconds,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func (m *Metrics) observeWorld(w *ecs.World) {
	for _, k := range []ecs.Kind{ecs.KindPlayer, ecs.KindAlien, ecs.KindProjectile} {
		m.Entities.WithLabelValues(k.String()).Set(float64(w.Count(k)))
	}
}
