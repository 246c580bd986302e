// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweets_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tweets_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "path"},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweets_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"path"},
	)

	// Aggregation metrics
	EnrichedTweets = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweets_enriched_total",
			Help: "Tweets enriched with their likes",
		},
		[]string{"mode"}, // "single", "batch" or "fanout"
	)

	EnrichDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tweets_enrich_duration_seconds",
			Help:    "Time spent attaching likes to tweets",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"mode"},
	)

	// Store metrics
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweets_store_errors_total",
			Help: "Store calls that failed, by error kind",
		},
		[]string{"kind"}, // "store" or "pool_exhausted"
	)

	// Job metrics
	PurgeJobsEnqueued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweets_purge_jobs_enqueued_total",
			Help: "Like purge tasks enqueued after tweet deletion",
		},
		[]string{"result"}, // "ok" or "error"
	)
)
