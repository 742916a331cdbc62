package pagecache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Cache is a capacity-bounded page cache over a DataProvider. All
// methods are safe for concurrent use.
type Cache[T any] struct {
	source DataProvider[T]
	logger zerolog.Logger

	// now is the clock used for entry metadata and eviction scoring.
	now func() time.Time

	// flight coordinates loads so each page number has at most one
	// outstanding fetch.
	flight singleflight.Group

	mu         sync.Mutex
	cfg        Config
	totalCount int
	pages      map[int]*cachedPage[T]
	inflight   map[int]struct{}

	prefetchWG sync.WaitGroup
}

// PageData wraps a served page with pagination metadata. It is derived
// per call and never stored.
type PageData[T any] struct {
	// Items is the page content. Callers must treat it as read-only;
	// the slice is shared with the store.
	Items []T `json:"items"`

	// TotalCount is the dataset size recorded by Initialize.
	TotalCount int `json:"totalCount"`

	// CurrentPage is the served 1-based page number.
	CurrentPage int `json:"currentPage"`

	// TotalPages is ceil(TotalCount / PageSize).
	TotalPages int `json:"totalPages"`

	// HasNextPage and HasPreviousPage report neighbor existence.
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`

	// IsLoading reports whether a fetch for this page was in flight at
	// the time the snapshot was taken.
	IsLoading bool `json:"isLoading"`
}

// New creates a cache over the given data source. Non-positive PageSize
// and MaxCachedPages fall back to their defaults; a negative
// PreloadPages falls back to the default radius, while zero disables
// prefetching. New panics if source is nil.
func New[T any](source DataProvider[T], cfg Config) *Cache[T] {
	if source == nil {
		panic("data provider cannot be nil")
	}

	defaults := DefaultConfig()
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaults.PageSize
	}
	if cfg.MaxCachedPages <= 0 {
		cfg.MaxCachedPages = defaults.MaxCachedPages
	}
	if cfg.PreloadPages < 0 {
		cfg.PreloadPages = defaults.PreloadPages
	}

	return &Cache[T]{
		source:   source,
		logger:   log.With().Str("component", "pagecache").Logger(),
		now:      time.Now,
		cfg:      cfg,
		pages:    make(map[int]*cachedPage[T]),
		inflight: make(map[int]struct{}),
	}
}

// SetLogger replaces the cache logger. Call it before the cache starts
// serving queries.
func (c *Cache[T]) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}

// Initialize fetches the dataset's total item count. The count is
// trusted until Close; range and search queries and prefetch bounds
// depend on it. GetPage works without it but reports zero total pages.
func (c *Cache[T]) Initialize(ctx context.Context) error {
	count, err := c.source.TotalCount(ctx)
	if err != nil {
		return fmt.Errorf("fetch total count: %w", err)
	}
	if count < 0 {
		return fmt.Errorf("source reported negative total count %d", count)
	}

	c.mu.Lock()
	c.totalCount = count
	totalPages := c.totalPagesLocked()
	c.mu.Unlock()

	c.logger.Info().
		Int("total_count", count).
		Int("total_pages", totalPages).
		Msg("Cache initialized")

	return nil
}

// GetPage returns the requested 1-based page along with pagination
// metadata. Hits update the page's access metadata; misses fetch
// through the load coordinator so concurrent callers for the same page
// share one fetch, then warm the adjacent pages in the background.
//
// Page numbers beyond the dataset are not rejected: the fetch is
// attempted and the source's answer (typically an empty page) is
// cached and returned.
func (c *Cache[T]) GetPage(ctx context.Context, pageNumber int) (PageData[T], error) {
	if pageNumber < 1 {
		return PageData[T]{}, fmt.Errorf("page number must be >= 1, got %d", pageNumber)
	}

	c.mu.Lock()
	if entry, ok := c.pages[pageNumber]; ok {
		entry.touch(c.now())
		out := c.pageDataLocked(pageNumber, entry.data)
		c.mu.Unlock()

		cacheHits.Inc()
		c.logger.Debug().Int("page", pageNumber).Msg("Cache hit")
		return out, nil
	}
	c.mu.Unlock()

	cacheMisses.Inc()

	items, err := c.loadPage(ctx, pageNumber)
	if err != nil {
		c.logger.Warn().Err(err).Int("page", pageNumber).Msg("Page load failed")
		return PageData[T]{}, err
	}

	c.prefetchAround(ctx, pageNumber)

	c.mu.Lock()
	out := c.pageDataLocked(pageNumber, items)
	c.mu.Unlock()
	return out, nil
}

// loadResult carries a completed load out of the flight group.
type loadResult[T any] struct {
	items []T
}

// loadPage fetches a page through the flight group, guaranteeing at
// most one outstanding source fetch per page number; concurrent callers
// for the same page block until the single fetch completes and share
// its outcome, errors included. On success the page is inserted with a
// fresh access count and capacity is re-established before returning.
// On failure the store is left without an entry for the page.
func (c *Cache[T]) loadPage(ctx context.Context, pageNumber int) ([]T, error) {
	key := strconv.Itoa(pageNumber)

	v, err, _ := c.flight.Do(key, func() (any, error) {
		c.mu.Lock()
		// The page may have landed between the caller's miss and this
		// flight starting.
		if entry, ok := c.pages[pageNumber]; ok {
			items := entry.data
			c.mu.Unlock()
			return loadResult[T]{items: items}, nil
		}
		pageSize := c.cfg.PageSize
		c.inflight[pageNumber] = struct{}{}
		c.mu.Unlock()

		defer func() {
			c.mu.Lock()
			delete(c.inflight, pageNumber)
			c.mu.Unlock()
		}()

		start := time.Now()
		items, err := c.source.FetchPage(ctx, pageNumber, pageSize)
		loadDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			loadsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("load page %d: %w", pageNumber, err)
		}
		loadsTotal.WithLabelValues("success").Inc()

		// Insert and unmark in one critical section so no reader sees the
		// page cached while still marked loading.
		c.mu.Lock()
		delete(c.inflight, pageNumber)
		c.pages[pageNumber] = newCachedPage(pageNumber, items, c.now())
		c.evictLocked()
		c.mu.Unlock()

		c.logger.Debug().
			Int("page", pageNumber).
			Int("items", len(items)).
			Msg("Page loaded")

		return loadResult[T]{items: items}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(loadResult[T]).items, nil
}

// GetItemByID looks up a single item directly, bypassing pagination.
// It requires a data provider that implements ItemLookup; otherwise
// ErrLookupUnsupported is returned.
func (c *Cache[T]) GetItemByID(ctx context.Context, id string) (T, error) {
	var zero T
	lookup, ok := c.source.(ItemLookup[T])
	if !ok {
		return zero, ErrLookupUnsupported
	}

	item, err := lookup.FetchItem(ctx, id)
	if err != nil {
		return zero, fmt.Errorf("fetch item %q: %w", id, err)
	}
	return item, nil
}

// Config returns a snapshot of the live configuration.
func (c *Cache[T]) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// UpdateConfig merges non-nil fields into the live configuration. If
// MaxCachedPages shrinks, surplus pages are evicted before the call
// returns. Changing PageSize does not re-partition pages already
// cached; Clear the cache when page boundaries must change.
func (c *Cache[T]) UpdateConfig(update ConfigUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if update.PageSize != nil {
		c.cfg.PageSize = *update.PageSize
	}
	if update.MaxCachedPages != nil {
		c.cfg.MaxCachedPages = *update.MaxCachedPages
	}
	if update.PreloadPages != nil {
		c.cfg.PreloadPages = *update.PreloadPages
	}
	if update.VirtualScrollThreshold != nil {
		c.cfg.VirtualScrollThreshold = *update.VirtualScrollThreshold
	}

	c.evictLocked()

	c.logger.Debug().
		Int("page_size", c.cfg.PageSize).
		Int("max_cached_pages", c.cfg.MaxCachedPages).
		Int("preload_pages", c.cfg.PreloadPages).
		Msg("Config updated")
}

// Clear drops every cached page and in-flight mark. Loads already in
// progress still complete and insert their page once done; a new
// GetPage for such a page starts a fresh fetch instead of joining the
// abandoned one.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.logger.Debug().Msg("Cache cleared")
}

// Close drains background prefetches, then resets the cache to its
// uninitialized state: pages, in-flight marks, and the total count are
// dropped. The cache is reusable after another Initialize. Close is
// meant for teardown; queries from other goroutines must have
// completed.
func (c *Cache[T]) Close() error {
	c.prefetchWG.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.totalCount = 0

	c.logger.Debug().Msg("Cache closed")
	return nil
}

// clearLocked resets the store and load coordination. Caller must hold c.mu.
func (c *Cache[T]) clearLocked() {
	for page := range c.inflight {
		c.flight.Forget(strconv.Itoa(page))
	}
	c.pages = make(map[int]*cachedPage[T])
	c.inflight = make(map[int]struct{})
	cachedPagesGauge.Set(0)
}

// pageDataLocked assembles the caller-facing view of a served page.
// Caller must hold c.mu.
func (c *Cache[T]) pageDataLocked(pageNumber int, items []T) PageData[T] {
	totalPages := c.totalPagesLocked()
	_, loading := c.inflight[pageNumber]

	return PageData[T]{
		Items:           items,
		TotalCount:      c.totalCount,
		CurrentPage:     pageNumber,
		TotalPages:      totalPages,
		HasNextPage:     pageNumber < totalPages,
		HasPreviousPage: pageNumber > 1,
		IsLoading:       loading,
	}
}

// totalPagesLocked computes ceil(totalCount / PageSize). Caller must
// hold c.mu.
func (c *Cache[T]) totalPagesLocked() int {
	if c.totalCount <= 0 {
		return 0
	}
	return (c.totalCount + c.cfg.PageSize - 1) / c.cfg.PageSize
}
