package pagecache

import "sort"

// maxTopPages is how many pages Stats reports in MostAccessedPages.
const maxTopPages = 5

// Stats is a point-in-time snapshot of cache state.
type Stats struct {
	// CachedPages is the number of pages currently in the store.
	CachedPages int `json:"cachedPages"`

	// TotalCacheSize is the total number of cached items across pages.
	TotalCacheSize int `json:"totalCacheSize"`

	// HitRate estimates the fraction of accesses that were repeat hits.
	// It is derived from the access counts of currently cached pages
	// and is a heuristic, not an exact hit/miss ratio: evicted pages no
	// longer contribute. Exact counters are exported as Prometheus
	// metrics.
	HitRate float64 `json:"hitRate"`

	// MostAccessedPages lists up to five pages by descending access
	// count.
	MostAccessedPages []PageAccess `json:"mostAccessedPages"`
}

// PageAccess describes how often a cached page has been accessed.
type PageAccess struct {
	PageNumber  int `json:"pageNumber"`
	AccessCount int `json:"accessCount"`
}

// Stats returns a snapshot of the store: size, item volume, the hit
// rate heuristic, and the most accessed pages.
func (c *Cache[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		CachedPages: len(c.pages),
	}

	totalAccesses := 0
	repeatAccesses := 0
	access := make([]PageAccess, 0, len(c.pages))
	for _, entry := range c.pages {
		stats.TotalCacheSize += len(entry.data)
		totalAccesses += entry.accessCount
		if entry.accessCount > 1 {
			repeatAccesses += entry.accessCount
		}
		access = append(access, PageAccess{
			PageNumber:  entry.pageNumber,
			AccessCount: entry.accessCount,
		})
	}
	if totalAccesses > 0 {
		stats.HitRate = float64(repeatAccesses) / float64(totalAccesses)
	}

	sort.Slice(access, func(i, j int) bool {
		if access[i].AccessCount != access[j].AccessCount {
			return access[i].AccessCount > access[j].AccessCount
		}
		return access[i].PageNumber < access[j].PageNumber
	})
	if len(access) > maxTopPages {
		access = access[:maxTopPages]
	}
	stats.MostAccessedPages = access

	return stats
}
