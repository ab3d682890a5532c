// Package metrics exposes Prometheus counters for dispatch outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts dispatch outcomes per kind, discriminant and status.
type Metrics struct {
	registry   *prometheus.Registry
	dispatches *prometheus.CounterVec
}

// New creates the metrics set on a private registry.
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	dispatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatches_total",
		Help:      "Dispatch outcomes by kind, discriminant and status.",
	}, []string{"kind", "discriminant", "status"})
	registry.MustRegister(dispatches)

	return &Metrics{
		registry:   registry,
		dispatches: dispatches,
	}
}

// ObserveDispatch counts one dispatch outcome.
func (m *Metrics) ObserveDispatch(kind, discriminant, status string) {
	m.dispatches.WithLabelValues(kind, discriminant, status).Inc()
}

// Handler returns the scrape endpoint handler for this metrics set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
