// Package metrics provides Prometheus metrics for the blog.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContentRequestsTotal counts content API requests.
	ContentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spacetraveling",
			Name:      "content_requests_total",
			Help:      "Total number of content API requests",
		},
		[]string{"operation", "status"},
	)

	// ContentRequestDuration measures content API request duration.
	ContentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "spacetraveling",
			Name:      "content_request_duration_seconds",
			Help:      "Duration of content API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// LoadMoreTotal counts load-more attempts by outcome.
	LoadMoreTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spacetraveling",
			Name:      "load_more_total",
			Help:      "Total number of load-more attempts",
		},
		[]string{"status"},
	)

	// CacheLookupsTotal counts page cache lookups.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "spacetraveling",
			Name:      "cache_lookups_total",
			Help:      "Total number of page cache lookups",
		},
		[]string{"page", "result"},
	)
)
