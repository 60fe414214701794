// Package metrics exposes simulation progress as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-sidereal/internal/state"
)

// Metrics owns a private registry so several simulations (and tests) can
// coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	effectiveTime  prometheus.Gauge
	dayCount       prometheus.Gauge
	driftSeconds   prometheus.Gauge
	playing        prometheus.Gauge
	ticks          prometheus.Counter
	dayCompletions *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpDurationSeconds *prometheus.HistogramVec

	mu       sync.Mutex
	last     state.Snapshot
	observed bool
}

// New creates and registers every collector, including the Go runtime ones.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		effectiveTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sidereal_effective_time_seconds",
			Help: "Simulation time since t = 0.",
		}),
		dayCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sidereal_day_count",
			Help: "Whole days advanced by the stepped scheme.",
		}),
		driftSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sidereal_drift_seconds",
			Help: "Accumulated sidereal drift against solar time.",
		}),
		playing: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sidereal_playing",
			Help: "1 while the simulation is playing.",
		}),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidereal_ticks_total",
			Help: "Scheduler ticks processed.",
		}),
		dayCompletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidereal_day_completions_total",
				Help: "Day boundaries crossed, by day kind.",
			},
			[]string{"kind"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidereal_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"path", "method", "code"},
		),
		httpDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sidereal_http_duration_seconds",
				Help:    "HTTP request duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
	}
	m.registry.MustRegister(
		m.effectiveTime,
		m.dayCount,
		m.driftSeconds,
		m.playing,
		m.ticks,
		m.dayCompletions,
		m.httpRequestsTotal,
		m.httpDurationSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe updates every metric from snap. Counters advance by the change in
// the snapshot's running totals; a reset that lowers a total rebases without
// decrementing.
func (m *Metrics) Observe(snap state.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.effectiveTime.Set(snap.EffectiveTime)
	m.dayCount.Set(float64(snap.DayCount))
	m.driftSeconds.Set(snap.Drift)
	if snap.Playing {
		m.playing.Set(1)
	} else {
		m.playing.Set(0)
	}

	prev := m.last
	if !m.observed {
		prev = state.Snapshot{}
	}
	if snap.Ticks > prev.Ticks {
		m.ticks.Add(float64(snap.Ticks - prev.Ticks))
	}
	if d := snap.SiderealDays - prev.SiderealDays; d > 0 {
		m.dayCompletions.WithLabelValues("sidereal").Add(float64(d))
	}
	if d := snap.SolarDays - prev.SolarDays; d > 0 {
		m.dayCompletions.WithLabelValues("solar").Add(float64(d))
	}

	m.last = snap
	m.observed = true
}

// CacheStats is satisfied by sky.Cache.
type CacheStats interface {
	Stats() (hits, misses uint64)
	Len() int
}

// RegisterCache exports a frame cache's hit and miss counts.
func (m *Metrics) RegisterCache(c CacheStats) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "sidereal_frame_cache_hits_total",
			Help: "Sky frames served from cache.",
		}, func() float64 {
			hits, _ := c.Stats()
			return float64(hits)
		}),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "sidereal_frame_cache_misses_total",
			Help: "Sky frames computed on demand.",
		}, func() float64 {
			_, misses := c.Stats()
			return float64(misses)
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sidereal_frame_cache_entries",
			Help: "Sky frames currently cached.",
		}, func() float64 {
			return float64(c.Len())
		}),
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		path := normalizeRoute(r.URL.Path)
		m.httpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		m.httpDurationSeconds.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}

var knownRoutes = map[string]bool{
	"/":         true,
	"/metrics":  true,
	"/healthz":  true,
	"/snapshot": true,
	"/summary":  true,
	"/sky":      true,
}

// normalizeRoute keeps the path label bounded.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}
