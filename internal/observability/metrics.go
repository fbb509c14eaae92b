package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// satellite image subsystem.
type Metrics struct {
	// Resolution outcomes: cache_hit, fetched, placeholder, invalid_input.
	ImageRequests *prometheus.CounterVec // labels: outcome

	// Provider fetch metrics.
	ProviderFetches      *prometheus.CounterVec   // labels: provider, outcome={success,transient,invalid}
	ProviderFetchSeconds *prometheus.HistogramVec // labels: provider

	// Cache metrics.
	CacheLookups *prometheus.CounterVec // labels: result={hit,miss}
	CacheEntries prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ImageRequests,
		m.ProviderFetches,
		m.ProviderFetchSeconds,
		m.CacheLookups,
		m.CacheEntries,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ImageRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solvurder",
			Name:      "satellite_image_requests_total",
			Help:      "Satellite image resolutions by outcome.",
		}, []string{"outcome"}),
		ProviderFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solvurder",
			Name:      "satellite_provider_fetches_total",
			Help:      "Upstream imagery fetch attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderFetchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "solvurder",
			Name:      "satellite_provider_fetch_duration_seconds",
			Help:      "Upstream imagery fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"provider"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "solvurder",
			Name:      "satellite_cache_lookups_total",
			Help:      "Image cache lookups by result.",
		}, []string{"result"}),
		CacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "solvurder",
			Name:      "satellite_cache_entries",
			Help:      "Current number of entries in the image cache.",
		}),
	}
}
