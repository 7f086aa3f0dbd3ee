package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes recorded on GeocodeRequests.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Cache lookup results recorded on GeocodeCache.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// Metrics holds the Prometheus collectors for the geocoding client.
type Metrics struct {
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,empty,error}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	AuditFailures      prometheus.Counter
	CacheWriteFailures prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates the metrics and registers them with reg. A nil reg
// leaves them unregistered.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "google_geocoding",
			Name:      "geocode_requests_total",
			Help:      "Geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "google_geocoding",
			Name:      "geocode_cache_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "google_geocoding",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		AuditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "google_geocoding",
			Name:      "geocode_audit_failures_total",
			Help:      "Audit writes that failed and were dropped.",
		}),
		CacheWriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "google_geocoding",
			Name:      "geocode_cache_write_failures_total",
			Help:      "Result cache writes that failed.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.GeocodeRequests,
			m.GeocodeCache,
			m.GeocodeAPIDuration,
			m.AuditFailures,
			m.CacheWriteFailures,
		)
	}

	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetricsWith(nil)
}
