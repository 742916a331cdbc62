package provider

import (
	"context"
	"fmt"
)

// SliceProvider serves pages from an in-memory slice. It is useful for
// tests, examples, and small static datasets that fit in memory.
type SliceProvider[T any] struct {
	items []T
	idFn  func(T) string
}

// NewSliceProvider creates a page source backed by the given items.
// The slice is used as-is; callers must not mutate it afterwards.
func NewSliceProvider[T any](items []T) *SliceProvider[T] {
	return &SliceProvider[T]{items: items}
}

// SetIDFunc enables direct item lookup by deriving an ID from each item.
func (p *SliceProvider[T]) SetIDFunc(fn func(T) string) {
	p.idFn = fn
}

// TotalCount reports the number of items.
func (p *SliceProvider[T]) TotalCount(ctx context.Context) (int, error) {
	return len(p.items), nil
}

// FetchPage returns the 1-based page of the given size. Pages beyond the
// dataset yield an empty slice.
func (p *SliceProvider[T]) FetchPage(ctx context.Context, pageNumber, pageSize int) ([]T, error) {
	if pageNumber < 1 || pageSize < 1 {
		return nil, fmt.Errorf("invalid page request: page %d size %d", pageNumber, pageSize)
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(p.items) {
		return []T{}, nil
	}
	end := start + pageSize
	if end > len(p.items) {
		end = len(p.items)
	}

	page := make([]T, end-start)
	copy(page, p.items[start:end])
	return page, nil
}

// FetchItem looks up a single item by ID. Requires SetIDFunc.
func (p *SliceProvider[T]) FetchItem(ctx context.Context, id string) (T, error) {
	var zero T
	if p.idFn == nil {
		return zero, ErrLookupUnsupported
	}
	for _, item := range p.items {
		if p.idFn(item) == id {
			return item, nil
		}
	}
	return zero, fmt.Errorf("%w: %q", ErrItemNotFound, id)
}
