package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for page source operations.
var (
	sourceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagesource_requests_total",
		Help: "Total page source requests by source and result",
	}, []string{"provider", "result"})

	sourceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pagesource_request_duration_seconds",
		Help:    "Page source request duration in seconds by source",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	}, []string{"provider"})

	sourceRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagesource_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	sourceRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pagesource_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"error_class"})

	sourceRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagesource_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)
