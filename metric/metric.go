// Package metric provides Prometheus metrics for the Fakebook server.
package metric

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all server-level metrics
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LikesTotal      prometheus.Counter
	LoginsTotal     *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all server metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fakebook",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"surface", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fakebook",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request handling duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"surface"},
		),

		LikesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "fakebook",
				Subsystem: "graph",
				Name:      "likes_total",
				Help:      "Total number of likePost mutations applied",
			},
		),

		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fakebook",
				Subsystem: "auth",
				Name:      "logins_total",
				Help:      "Total number of login attempts",
			},
			[]string{"status"},
		),
	}
}

// Registry manages the registration and exposure of metrics
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewRegistry creates a metrics registry with core server metrics plus the
// Go runtime and process collectors.
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &Registry{
		prometheusRegistry: prometheusRegistry,
		Metrics:            NewMetrics(),
	}

	prometheusRegistry.MustRegister(
		registry.Metrics.RequestsTotal,
		registry.Metrics.RequestDuration,
		registry.Metrics.LikesTotal,
		registry.Metrics.LoginsTotal,
	)

	prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// Handler returns the HTTP handler exposing the registry's metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(
		r.prometheusRegistry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(surface, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(surface, status).Inc()
	m.RequestDuration.WithLabelValues(surface).Observe(duration.Seconds())
}
