package pagecache

import (
	"context"
	"fmt"
	"math"
)

// SearchResult is the outcome of a bounded predicate search.
type SearchResult[T any] struct {
	// Items holds the matches in dataset order, capped at maxResults.
	Items []T `json:"items"`

	// HasMore reports whether the search stopped at the result cap.
	// It is an approximation: a search that found exactly maxResults
	// matches with none remaining also reports HasMore=true.
	HasMore bool `json:"hasMore"`
}

// GetItemRange returns the items covering the global index range
// [startIndex, endIndex] (0-based, both inclusive). The covered pages
// are resolved sequentially through GetPage, so cached pages are reused
// and fetched pages become cached. Indexes beyond the dataset yield a
// shorter result.
func (c *Cache[T]) GetItemRange(ctx context.Context, startIndex, endIndex int) ([]T, error) {
	if startIndex < 0 {
		return nil, fmt.Errorf("start index must be >= 0, got %d", startIndex)
	}
	if endIndex < startIndex {
		return nil, fmt.Errorf("end index %d before start index %d", endIndex, startIndex)
	}

	c.mu.Lock()
	pageSize := c.cfg.PageSize
	c.mu.Unlock()

	startPage := startIndex/pageSize + 1
	endPage := endIndex/pageSize + 1
	if endPage < startPage {
		// The page arithmetic overflowed for an endIndex near MaxInt;
		// the short-page break below bounds the scan instead.
		endPage = math.MaxInt
	}

	// Clamp the pre-allocation: the span arithmetic overflows for huge
	// ranges, and the dataset bound applies only page by page.
	span := endIndex - startIndex + 1
	if span < 0 || span > 512 {
		span = 512
	}
	items := make([]T, 0, span)
	for page := startPage; page <= endPage; page++ {
		result, err := c.GetPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("range [%d, %d]: %w", startIndex, endIndex, err)
		}

		pageStart := (page - 1) * pageSize
		lo := 0
		if startIndex > pageStart {
			lo = startIndex - pageStart
		}
		hi := len(result.Items)
		if rem := endIndex - pageStart; rem < hi-1 {
			hi = rem + 1
		}
		if lo < hi {
			items = append(items, result.Items[lo:hi]...)
		}

		// A short page is the dataset's last one; no later page can
		// cover the remaining indexes.
		if len(result.Items) < pageSize {
			break
		}
	}

	return items, nil
}

// SearchItems scans pages in order, applying match to every item until
// maxResults matches are collected or the dataset is exhausted. Pages
// are resolved sequentially through GetPage to bound concurrent source
// load; scanned pages populate the cache like any other access. A
// non-positive maxResults yields an empty result.
func (c *Cache[T]) SearchItems(ctx context.Context, match func(T) bool, maxResults int) (SearchResult[T], error) {
	if match == nil {
		return SearchResult[T]{}, fmt.Errorf("match function is required")
	}
	if maxResults <= 0 {
		return SearchResult[T]{Items: []T{}}, nil
	}

	c.mu.Lock()
	totalPages := c.totalPagesLocked()
	c.mu.Unlock()

	items := make([]T, 0, min(maxResults, 512))
	for page := 1; page <= totalPages && len(items) < maxResults; page++ {
		result, err := c.GetPage(ctx, page)
		if err != nil {
			return SearchResult[T]{}, fmt.Errorf("search page %d: %w", page, err)
		}
		for _, item := range result.Items {
			if !match(item) {
				continue
			}
			items = append(items, item)
			if len(items) >= maxResults {
				break
			}
		}
	}

	return SearchResult[T]{
		Items:   items,
		HasMore: len(items) == maxResults,
	}, nil
}
