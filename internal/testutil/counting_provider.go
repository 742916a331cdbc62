package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// CountingProvider is an in-memory page source that records every fetch.
// It serves pages of the configured item slice and is safe for concurrent
// use. Create instances with NewCountingProvider.
type CountingProvider[T any] struct {
	mu        sync.Mutex
	items     []T
	pageCalls map[int]int
	fetches   int

	// TotalErr, when non-nil, is returned by TotalCount.
	TotalErr error

	// PageErrs maps page numbers to the error returned when fetching them.
	PageErrs map[int]error

	// Delay is applied to every FetchPage call before it returns.
	Delay time.Duration

	// Barrier, when non-nil, blocks FetchPage until the channel is closed.
	// The per-page call counter is incremented before blocking, so tests
	// can wait for a fetch to be in flight before releasing it.
	Barrier chan struct{}
}

// NewCountingProvider creates a provider serving the given items.
func NewCountingProvider[T any](items []T) *CountingProvider[T] {
	return &CountingProvider[T]{
		items:     items,
		pageCalls: make(map[int]int),
		PageErrs:  make(map[int]error),
	}
}

// TotalCount returns the dataset size.
func (p *CountingProvider[T]) TotalCount(ctx context.Context) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.TotalErr != nil {
		return 0, p.TotalErr
	}
	return len(p.items), nil
}

// FetchPage returns the requested slice of the dataset.
func (p *CountingProvider[T]) FetchPage(ctx context.Context, pageNumber, pageSize int) ([]T, error) {
	p.mu.Lock()
	p.pageCalls[pageNumber]++
	p.fetches++
	barrier := p.Barrier
	delay := p.Delay
	failErr := p.PageErrs[pageNumber]
	items := p.items
	p.mu.Unlock()

	if barrier != nil {
		select {
		case <-barrier:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failErr != nil {
		return nil, failErr
	}
	if pageNumber < 1 || pageSize < 1 {
		return nil, fmt.Errorf("invalid page request: page %d, size %d", pageNumber, pageSize)
	}

	lo := (pageNumber - 1) * pageSize
	if lo >= len(items) {
		return []T{}, nil
	}
	hi := lo + pageSize
	if hi > len(items) {
		hi = len(items)
	}
	out := make([]T, hi-lo)
	copy(out, items[lo:hi])
	return out, nil
}

// FetchCalls returns the total number of FetchPage calls.
func (p *CountingProvider[T]) FetchCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetches
}

// PageCalls returns the number of FetchPage calls for a specific page.
func (p *CountingProvider[T]) PageCalls(page int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pageCalls[page]
}

// Reset clears all call counters.
func (p *CountingProvider[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pageCalls = make(map[int]int)
	p.fetches = 0
}

// LookupProvider extends CountingProvider with direct item lookup.
type LookupProvider[T any] struct {
	*CountingProvider[T]

	// IDFn extracts the identifier compared against lookup keys.
	IDFn func(T) string

	// ItemErr, when non-nil, is returned by every FetchItem call.
	ItemErr error

	itemCalls int
}

// NewLookupProvider creates a provider with item lookup support.
func NewLookupProvider[T any](items []T, idFn func(T) string) *LookupProvider[T] {
	return &LookupProvider[T]{
		CountingProvider: NewCountingProvider(items),
		IDFn:             idFn,
	}
}

// FetchItem scans the dataset for the item with the given identifier.
func (p *LookupProvider[T]) FetchItem(ctx context.Context, id string) (T, error) {
	var zero T
	p.mu.Lock()
	p.itemCalls++
	err := p.ItemErr
	items := p.items
	p.mu.Unlock()

	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if p.IDFn(item) == id {
			return item, nil
		}
	}
	return zero, fmt.Errorf("item %q not found", id)
}

// ItemCalls returns the number of FetchItem calls.
func (p *LookupProvider[T]) ItemCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.itemCalls
}
