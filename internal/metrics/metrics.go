package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LinksCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlinks_links_created_total",
		Help: "Links created, by API operation.",
	}, []string{"operation"})

	BulkRequestSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shortlinks_bulk_request_size",
		Help:    "Number of links submitted per bulk create request.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 75, 100},
	})

	APIErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortlinks_api_errors_total",
		Help: "Error responses written by the API, by error code.",
	}, []string{"code"})

	RateLimitedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortlinks_rate_limited_total",
		Help: "Requests rejected because the caller's token bucket was empty.",
	})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shortlinks_request_duration_seconds",
		Help:    "API request latency by route pattern and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "status"})
)
