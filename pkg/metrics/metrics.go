// Package metrics provides the centralized Prometheus metrics registry for the
// page cache. All metrics are defined in their respective packages (pagecache,
// provider) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the page cache.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Cache Metrics (pkg/pagecache):
//   - pagecache_hits_total (Counter): Page requests served from the cache
//   - pagecache_misses_total (Counter): Page requests that required a source fetch
//   - pagecache_loads_total{result} (Counter): Page loads by result (success, error)
//   - pagecache_load_duration_seconds (Histogram): Page load duration
//   - pagecache_evictions_total (Counter): Pages evicted to enforce the capacity bound
//   - pagecache_prefetch_total{result} (Counter): Prefetched pages by result (success, error)
//   - pagecache_cached_pages (Gauge): Pages currently held in the cache
//
// Page Source Metrics (pkg/provider):
//   - pagesource_requests_total{provider, result} (Counter): Source requests by provider and result
//   - pagesource_request_duration_seconds{provider} (Histogram): Source request duration by provider
//
// Retry Metrics (pkg/provider):
//   - pagesource_retries_total{error_class} (Counter): Retry attempts by error class
//   - pagesource_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - pagesource_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(pagecache_hits_total[5m])) /
//   (sum(rate(pagecache_hits_total[5m])) + sum(rate(pagecache_misses_total[5m])))
//
//   # Load Error Rate
//   rate(pagecache_loads_total{result="error"}[5m])
//
//   # P95 Load Latency
//   histogram_quantile(0.95, rate(pagecache_load_duration_seconds_bucket[5m]))
//
//   # Prefetch Effectiveness
//   rate(pagecache_prefetch_total{result="success"}[5m]) / rate(pagecache_hits_total[5m])
//
//   # Eviction Pressure
//   rate(pagecache_evictions_total[5m])
