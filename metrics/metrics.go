// Package metrics exports game activity to Prometheus.
package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/plus3/colorsquares/ecs"
	"github.com/plus3/colorsquares/game"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the game's metrics. Labels are bounded: event kinds and
// outcomes are closed enums.
type Collector struct {
	registry *prometheus.Registry

	events       *prometheus.CounterVec
	gameOvers    *prometheus.CounterVec
	resting      prometheus.Gauge
	remaining    prometheus.Gauge
	elapsed      prometheus.Gauge
	tickDuration prometheus.Histogram
}

// NewCollector registers the game metrics on a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "colorsquares_events_total",
			Help: "Game events by kind",
		}, []string{"kind"}),
		gameOvers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "colorsquares_game_overs_total",
			Help: "Finished sessions by outcome",
		}, []string{"outcome"}),
		resting: factory.NewGauge(prometheus.GaugeOpts{
			Name: "colorsquares_resting_squares",
			Help: "Squares currently resting in the playfield",
		}),
		remaining: factory.NewGauge(prometheus.GaugeOpts{
			Name: "colorsquares_remaining_squares",
			Help: "Squares left to spawn in the current session",
		}),
		elapsed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "colorsquares_elapsed_seconds",
			Help: "Elapsed play time of the current session",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "colorsquares_tick_duration_seconds",
			Help:    "Time spent in the game systems per tick",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
	}
}

// Registry returns the registry holding the game metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Observe counts one tick's events.
func (c *Collector) Observe(events []game.Event) {
	for _, e := range events {
		c.events.WithLabelValues(e.Kind.String()).Inc()
		if e.Kind == game.EventGameOver {
			c.gameOvers.WithLabelValues(e.Outcome.String()).Inc()
		}
	}
}

// ObserveTick records how long the game systems took for one tick.
func (c *Collector) ObserveTick(d time.Duration) {
	c.tickDuration.Observe(d.Seconds())
}

// Serve exposes the metrics on addr in the background.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("metrics listening on http://%s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	return srv
}

type restingSquare struct {
	ecs.EntityId
	*game.Square
	*game.Resting
}

// MetricsSystem feeds a Collector from inside the pipeline. Register it after
// the game systems so it sees the whole tick.
type MetricsSystem struct {
	Collector *Collector
	// Scheduler, when set, supplies the tick timings.
	Scheduler *ecs.Scheduler

	Resting ecs.Query[restingSquare]
	Session ecs.Singleton[game.Session]
	Log     ecs.Singleton[game.EventLog]
}

func (s *MetricsSystem) Execute(frame *ecs.UpdateFrame) {
	c := s.Collector
	c.Observe(s.Log.Get().Events)

	session := s.Session.Get()
	c.resting.Set(float64(s.Resting.Len()))
	c.remaining.Set(float64(session.Remaining))
	c.elapsed.Set(float64(session.Elapsed))

	if s.Scheduler != nil {
		var total time.Duration
		for _, st := range s.Scheduler.GetStats().Systems {
			if st.Name == "MetricsSystem" {
				continue
			}
			total += st.LastDuration
		}
		c.ObserveTick(total)
	}
}
