// Package metrics provides Prometheus metrics for calm-news.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "calm_news"

var (
	// CacheLookups counts cache reads by outcome.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total number of cache lookups",
		},
		[]string{"cache", "result"},
	)

	// UpstreamRequests counts upstream fetches by source and outcome.
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream fetches",
		},
		[]string{"source", "status"},
	)

	// ModelCalls counts language model requests by outcome.
	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Total number of batched simplification requests",
		},
		[]string{"status"},
	)

	// SimplifiedItems counts simplified items by where they came from.
	SimplifiedItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simplified_items_total",
			Help:      "Total number of items passed through the simplifier",
		},
		[]string{"origin"},
	)

	// AggregationDuration measures one /api/news assembly.
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Duration of news aggregation in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"live"},
	)
)

// RecordCacheLookup records a cache read. result is one of hit, miss, expired.
func RecordCacheLookup(cache, result string) {
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordUpstream records an upstream fetch outcome.
func RecordUpstream(source, status string) {
	UpstreamRequests.WithLabelValues(source, status).Inc()
}

// RecordModelCall records a simplification request outcome.
func RecordModelCall(status string) {
	ModelCalls.WithLabelValues(status).Inc()
}

// RecordSimplified adds n items for the given origin (cache, model, original, verbatim).
func RecordSimplified(origin string, n int) {
	if n <= 0 {
		return
	}
	SimplifiedItems.WithLabelValues(origin).Add(float64(n))
}

// RecordAggregation records the duration of one aggregation.
func RecordAggregation(live bool, seconds float64) {
	AggregationDuration.WithLabelValues(strconv.FormatBool(live)).Observe(seconds)
}
