// Package metrics exposes Prometheus collectors for the kimlik admin API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kimlik_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kimlik_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// SearchesTotal counts completed searches by kind and terminal state.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kimlik_searches_total",
			Help: "Total number of user searches",
		},
		[]string{"kind", "state"},
	)
	// RecordsFetched counts records pulled from the store by searches.
	RecordsFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kimlik_search_records_fetched_total",
			Help: "Records fetched from the user store during searches",
		},
	)
	// RecordsMatched counts records returned to callers.
	RecordsMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kimlik_search_records_matched_total",
			Help: "Records returned by searches",
		},
	)
	// SearchDuration is the latency of a single search.
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kimlik_search_duration_seconds",
			Help:    "Search latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	// SearchErrors counts searches aborted by a store failure.
	SearchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kimlik_search_errors_total",
			Help: "Searches aborted by a store error",
		},
		[]string{"kind"},
	)
)
