// Package metrics provides Prometheus metrics for the concierge API.
package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Query metrics
	QueriesTotal          *prometheus.CounterVec
	ProviderRequestsTotal *prometheus.CounterVec

	logger *slog.Logger
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	return NewWithLogger(nil)
}

// NewWithLogger creates metrics with a logger for error reporting.
func NewWithLogger(logger *slog.Logger) *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concierge_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_queries_total",
			Help: "Total number of transit queries by extracted intent",
		},
		[]string{"intent"},
	)

	providerRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_provider_requests_total",
			Help: "Total number of directions-provider calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		queriesTotal,
		providerRequestsTotal,
	)

	return &Metrics{
		Registry:              registry,
		HTTPRequestsTotal:     httpRequestsTotal,
		HTTPRequestDuration:   httpRequestDuration,
		QueriesTotal:          queriesTotal,
		ProviderRequestsTotal: providerRequestsTotal,
		logger:                logger,
	}
}

// RecordQuery counts one answered query under its extracted intent.
func (m *Metrics) RecordQuery(intent string) {
	m.QueriesTotal.WithLabelValues(intent).Inc()
}

// RecordProviderRequest counts one upstream call, outcome "ok" or "error".
func (m *Metrics) RecordProviderRequest(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequestsTotal.WithLabelValues(operation, outcome).Inc()
}
