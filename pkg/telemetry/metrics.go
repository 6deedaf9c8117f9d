package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// MetricsConfig configures metrics collection.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected at all.
	Enabled bool

	// Namespace is the prefix for all metric names.
	Namespace string
}

// Metrics collects Prometheus metrics for remote API traffic and
// reconciliation outcomes. A nil or disabled Metrics is a no-op, so callers
// never need to guard their recording calls.
type Metrics struct {
	config MetricsConfig

	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	reconciliations    *prometheus.CounterVec
	resourceMutations  *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	if !cfg.Enabled {
		return &Metrics{config: cfg}
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "fastsync"
	}

	registry := prometheus.NewRegistry()
	m := &Metrics{
		config:   cfg,
		registry: registry,

		apiRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "api_requests_total",
				Help:      "Total number of remote API requests",
			},
			[]string{"operation", "status"},
		),
		apiRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "api_request_duration_seconds",
				Help:      "Duration of remote API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		reconciliations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliations_total",
				Help:      "Total number of reconciliation runs by outcome",
			},
			[]string{"outcome"},
		),
		resourceMutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resource_mutations_total",
				Help:      "Total number of resource mutations by kind and action",
			},
			[]string{"kind", "action"},
		),
	}

	registry.MustRegister(m.apiRequests, m.apiRequestDuration, m.reconciliations, m.resourceMutations)
	return m
}

func (m *Metrics) enabled() bool {
	return m != nil && m.config.Enabled
}

// RecordAPIRequest records one remote API round trip.
func (m *Metrics) RecordAPIRequest(operation, status string, duration time.Duration) {
	if !m.enabled() {
		return
	}
	m.apiRequests.WithLabelValues(operation, status).Inc()
	m.apiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordReconciliation records the outcome of one reconciliation run
// (changed, unchanged, error).
func (m *Metrics) RecordReconciliation(outcome string) {
	if !m.enabled() {
		return
	}
	m.reconciliations.WithLabelValues(outcome).Inc()
}

// RecordMutation records one applied resource mutation.
func (m *Metrics) RecordMutation(kind, action string) {
	if !m.enabled() {
		return
	}
	m.resourceMutations.WithLabelValues(kind, action).Inc()
}

// LogSummary writes the gathered totals to the logger, one line per metric
// family. Counter values are summed across label sets; histogram families
// report their sample counts. Intended for one-shot CLI runs, where no
// scrape endpoint outlives the process.
func (m *Metrics) LogSummary(log zerolog.Logger) {
	if !m.enabled() {
		return
	}
	families, err := m.registry.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("Gathering metrics failed")
		return
	}
	for _, family := range families {
		var total float64
		for _, metric := range family.GetMetric() {
			if c := metric.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if h := metric.GetHistogram(); h != nil {
				total += float64(h.GetSampleCount())
			}
		}
		if total > 0 {
			log.Info().Str("metric", family.GetName()).Float64("total", total).Msg("Run metric")
		}
	}
}

// Handler exposes the metrics registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if !m.enabled() {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
