package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_api_requests_total",
			Help: "Backend API requests by endpoint and outcome",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "estate_api_request_duration_seconds",
			Help:    "Backend API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	APIRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "estate_api_requests_in_flight",
			Help: "Backend API requests currently in flight",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_cache_lookups_total",
			Help: "Response cache lookups by endpoint and result (hit|miss|error)",
		},
		[]string{"endpoint", "result"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "estate_cache_invalidations_total",
			Help: "Cache entries dropped by tag invalidation",
		},
		[]string{"tag"},
	)

	RecommendationsScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "estate_recommendation_score",
			Help:    "Distribution of recommendation match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)
