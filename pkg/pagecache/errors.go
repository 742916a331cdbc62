package pagecache

import "errors"

// Common errors returned by the cache.
var (
	// ErrLookupUnsupported is returned by GetItemByID when the data
	// provider does not implement ItemLookup.
	ErrLookupUnsupported = errors.New("data provider does not support item lookup")
)
