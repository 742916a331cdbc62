package pagecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for cache operations.
var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagecache_hits_total",
		Help: "Total number of page accesses served from the store",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagecache_misses_total",
		Help: "Total number of page accesses that required a fetch",
	})

	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagecache_loads_total",
		Help: "Total number of page loads by result",
	}, []string{"result"})

	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pagecache_load_duration_seconds",
		Help:    "Page load duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	evictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pagecache_evictions_total",
		Help: "Total number of pages evicted under capacity pressure",
	})

	prefetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pagecache_prefetch_total",
		Help: "Total number of prefetch attempts by result",
	}, []string{"result"})

	cachedPagesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pagecache_cached_pages",
		Help: "Current number of cached pages",
	})
)
