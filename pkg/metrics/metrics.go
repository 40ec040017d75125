// Package metrics defines the Prometheus metric collectors used by the index,
// the query engine and the HTTP surface, and exposes an HTTP handler for
// scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	SearchQueriesTotal   *prometheus.CounterVec
	SearchLatency        prometheus.Histogram
	SearchResultsCount   prometheus.Histogram
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	MoviesIndexedTotal   prometheus.Counter
	LocationsTotal       prometheus.Counter
	RejectedWordsTotal   prometheus.Counter
	IndexWords           prometheus.Gauge
	IndexBuckets         prometheus.Gauge
	IndexLoadFactor      prometheus.Gauge
	IndexRehashesTotal   prometheus.Counter
}

// New creates all collectors and registers them with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all collectors and registers them with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP requests by method, matched route pattern and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds by matched route pattern.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "search_queries_total",
				Help: "Total proximity queries by result type (hit, zero_result, unknown_word).",
			},
			[]string{"result_type"},
		),
		SearchLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_latency_seconds",
				Help:    "Proximity query latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "search_results_count",
				Help:    "Number of results returned per proximity query.",
				Buckets: []float64{0, 1, 2, 5, 10},
			},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of query cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of query cache misses.",
			},
		),
		MoviesIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "movies_indexed_total",
				Help: "Total movies ingested into the index.",
			},
		),
		LocationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "index_locations_total",
				Help: "Total word locations stored in the index.",
			},
		),
		RejectedWordsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "index_rejected_words_total",
				Help: "Total description words rejected by normalization.",
			},
		),
		IndexWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_distinct_words",
				Help: "Number of distinct words in the hash table.",
			},
		),
		IndexBuckets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_buckets",
				Help: "Number of buckets in the hash table.",
			},
		),
		IndexLoadFactor: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "index_load_factor",
				Help: "Distinct words divided by bucket count.",
			},
		),
		IndexRehashesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "index_rehashes_total",
				Help: "Total hash table doublings.",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchQueriesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.MoviesIndexedTotal,
		m.LocationsTotal,
		m.RejectedWordsTotal,
		m.IndexWords,
		m.IndexBuckets,
		m.IndexLoadFactor,
		m.IndexRehashesTotal,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
