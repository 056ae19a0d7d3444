package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Quote request metrics
	// ============================================
	QuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_requests_total",
			Help: "Total quote requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	QuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quote_request_duration_seconds",
			Help:    "End-to-end quote request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	// ============================================
	// Upstream attempt metrics
	// ============================================
	UpstreamAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_upstream_attempts_total",
			Help: "Upstream calls by provider and status class (2xx/4xx/5xx/auth/network)",
		},
		[]string{"provider", "class"},
	)

	UpstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_upstream_retries_total",
			Help: "Retries after transient upstream failures",
		},
		[]string{"provider"},
	)

	FallbackSteps = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quote_fallback_steps",
			Help:    "Number of fallback strategies tried per request",
			Buckets: []float64{1, 2, 3, 4, 5, 6},
		},
		[]string{"provider"},
	)

	// ============================================
	// Cache metrics
	// ============================================
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_cache_hits_total",
			Help: "Cache hits by cache name",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quote_cache_misses_total",
			Help: "Cache misses by cache name",
		},
		[]string{"cache"},
	)
)
