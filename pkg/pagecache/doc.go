// Package pagecache provides a capacity-bounded cache for paginated data
// with concurrent-load deduplication and adjacent-page prefetching.
//
// The cache owns a bounded store of fixed-size pages fetched on demand
// from a data source, with the following guarantees:
//
// - At most one outstanding fetch per page number (late callers join the in-flight fetch)
// - Never more than MaxCachedPages cached pages once a call returns
// - Scored eviction combining access frequency and recency
// - Fire-and-forget warming of adjacent pages after each page load
// - Range and predicate queries that span page boundaries
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	// Create a cache over a data source
//	src := provider.NewSliceProvider(items)
//	cache := pagecache.New[Item](src, pagecache.Config{
//		PageSize:       50,
//		MaxCachedPages: 10,
//		PreloadPages:   2,
//	})
//
//	// Fetch the total count once before serving queries
//	if err := cache.Initialize(ctx); err != nil {
//		return err
//	}
//
//	// Page access
//	page, err := cache.GetPage(ctx, 1)
//
//	// Range access across page boundaries (0-based, inclusive)
//	items, err := cache.GetItemRange(ctx, 120, 164)
//
//	// Bounded predicate search
//	result, err := cache.SearchItems(ctx, func(it Item) bool {
//		return it.Level == "error"
//	}, 50)
//
// # Freshness
//
// The total count and all cached pages are trusted until Close resets
// the cache; a changing backing dataset silently desynchronizes page
// boundaries until Initialize is called again. The cache imposes no
// timeouts on the data source; wrap the source if a stuck fetch must
// not stall callers.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - pagecache_hits_total - Accesses served from the store
//   - pagecache_misses_total - Accesses that required a fetch
//   - pagecache_loads_total{result} - Page loads by outcome
//   - pagecache_load_duration_seconds - Page load latency
//   - pagecache_evictions_total - Pages removed under capacity pressure
//   - pagecache_prefetch_total{result} - Prefetch attempts by outcome
//   - pagecache_cached_pages - Current store size
package pagecache
