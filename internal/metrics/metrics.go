// Package metrics exposes Prometheus collectors for the pricing engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "option_pricing"

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	// Simulated paths across all batches
	PathsTotal prometheus.Counter
	// Paths whose value reached or crossed zero during a step
	OriginHitsTotal prometheus.Counter
	// Completed batches by option type (call, put or both) and execution mode
	BatchesTotal *prometheus.CounterVec
	// Wall time of a completed batch
	BatchDuration prometheus.Histogram
	// Batches refused before simulating, by reason
	RejectedTotal *prometheus.CounterVec
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PathsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "paths_total",
			Help:      "Total simulated paths",
		}),
		OriginHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "origin_hits_total",
			Help:      "Total path steps ending at or below zero",
		}),
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "batches_total",
			Help:      "Completed pricing batches",
		}, []string{"type", "mode"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "batch_duration_seconds",
			Help:      "Pricing batch duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		RejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "rejected_batches_total",
			Help:      "Pricing requests rejected before simulation",
		}, []string{"reason"}),
	}

	m.registry.MustRegister(
		m.PathsTotal,
		m.OriginHitsTotal,
		m.BatchesTotal,
		m.BatchDuration,
		m.RejectedTotal,
		collectors.NewGoCollector(),
	)
	return m
}

// ObserveBatch records a completed batch
func (m *Metrics) ObserveBatch(optType, mode string, paths int, originHits int64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PathsTotal.Add(float64(paths))
	m.OriginHitsTotal.Add(float64(originHits))
	m.BatchesTotal.WithLabelValues(optType, mode).Inc()
	m.BatchDuration.Observe(elapsed.Seconds())
}

// ObserveRejected records a refused request
func (m *Metrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.RejectedTotal.WithLabelValues(reason).Inc()
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
