// Package metrics exposes the service's Prometheus collectors on a private
// registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tennis_ranking"

type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	rosterSize     prometheus.Gauge
	rankingPasses  prometheus.Counter
	ranksChanged   prometheus.Counter
	dependencyOpen *prometheus.GaugeVec
}

func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	auto := promauto.With(registry)

	return &Manager{
		registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rosterSize: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "players",
			Help:      "Players on the roster after the last ranking pass.",
		}),
		rankingPasses: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "passes_total",
			Help:      "Persisted ranking passes.",
		}),
		ranksChanged: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ranking",
			Name:      "positions_changed_total",
			Help:      "Players whose rank position moved during a ranking pass.",
		}),
		dependencyOpen: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dependency",
			Name:      "circuit_open",
			Help:      "1 while the circuit breaker guarding a dependency is not closed.",
		}, []string{"dependency"}),
	}
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Manager) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveRankingPass records one persisted ranking pass.
func (m *Manager) ObserveRankingPass(_ context.Context, rosterSize, changed int) {
	if m == nil {
		return
	}
	m.rankingPasses.Inc()
	m.ranksChanged.Add(float64(changed))
	m.rosterSize.Set(float64(rosterSize))
}

func (m *Manager) SetRosterSize(size int) {
	if m == nil {
		return
	}
	m.rosterSize.Set(float64(size))
}

func (m *Manager) SetDependencyCircuitOpen(dependency string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.dependencyOpen.WithLabelValues(dependency).Set(v)
}
