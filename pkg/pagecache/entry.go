package pagecache

import "time"

// cachedPage is a single cached page plus its access metadata. The data
// slice is immutable once set.
type cachedPage[T any] struct {
	pageNumber   int
	data         []T
	createdAt    time.Time
	accessCount  int
	lastAccessed time.Time
}

// newCachedPage creates an entry for a freshly fetched page. Creation
// counts as the first access.
func newCachedPage[T any](pageNumber int, data []T, now time.Time) *cachedPage[T] {
	return &cachedPage[T]{
		pageNumber:   pageNumber,
		data:         data,
		createdAt:    now,
		accessCount:  1,
		lastAccessed: now,
	}
}

// touch records a cache hit.
func (p *cachedPage[T]) touch(now time.Time) {
	p.accessCount++
	p.lastAccessed = now
}
