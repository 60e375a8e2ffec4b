package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for one
// pipeline run. The process is short-lived, so these matter most when the
// optional HTTP listener is scraped during a long enrichment pass.
type Metrics struct {
	SessionsIngested prometheus.Counter
	SessionsEnriched *prometheus.CounterVec // labels: stage={location,content,weather}
	EnrichmentSkips  *prometheus.CounterVec // labels: reason={no_coordinates,unknown_spot,no_station,no_observations,wrong_country,already_enriched}
	RunActive        prometheus.Gauge

	// External call metrics.
	ExternalRequests *prometheus.CounterVec // labels: service={strava,geocode,knmi}, outcome={success,error}
	CacheLookups     *prometheus.CounterVec // labels: cache={geocode,weather,content}, result={hit,miss}

	// Run-level metrics.
	RunDuration prometheus.Histogram
	StoreWrites prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SessionsIngested,
		m.SessionsEnriched,
		m.EnrichmentSkips,
		m.RunActive,
		m.ExternalRequests,
		m.CacheLookups,
		m.RunDuration,
		m.StoreWrites,
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
		SessionsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surf_etl",
			Name:      "sessions_ingested_total",
			Help:      "New windsurf sessions appended to the sheet.",
		}),
		SessionsEnriched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_etl",
			Name:      "sessions_enriched_total",
			Help:      "Sessions modified per enrichment stage.",
		}, []string{"stage"}),
		EnrichmentSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_etl",
			Name:      "enrichment_skips_total",
			Help:      "Sessions skipped by an enrichment stage, by reason.",
		}, []string{"reason"}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "surf_etl",
			Name:      "run_active",
			Help:      "1 while a pipeline run is in progress.",
		}),
		ExternalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_etl",
			Name:      "external_requests_total",
			Help:      "Outbound API requests by service and outcome.",
		}, []string{"service", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "surf_etl",
			Name:      "cache_lookups_total",
			Help:      "Response cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "surf_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete ingest-enrich-persist run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		StoreWrites: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "surf_etl",
			Name:      "store_writes_total",
			Help:      "Bulk writes of the session table back to storage.",
		}),
	}
}
