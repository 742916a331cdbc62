package pagecache

// Config holds the pagination and capacity settings for a Cache.
type Config struct {
	// PageSize is the number of items per page.
	PageSize int

	// MaxCachedPages is the hard cap on concurrently cached pages.
	MaxCachedPages int

	// PreloadPages is the radius of adjacent pages warmed after a page
	// load. Zero disables prefetching.
	PreloadPages int

	// VirtualScrollThreshold is carried for consumers that render the
	// data (e.g. to switch a list view into virtual scrolling). The
	// cache does not act on it.
	VirtualScrollThreshold int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		PageSize:               50,
		MaxCachedPages:         10,
		PreloadPages:           2,
		VirtualScrollThreshold: 100,
	}
}

// ConfigUpdate is a partial configuration change. Nil fields keep their
// current value.
type ConfigUpdate struct {
	PageSize               *int
	MaxCachedPages         *int
	PreloadPages           *int
	VirtualScrollThreshold *int
}
