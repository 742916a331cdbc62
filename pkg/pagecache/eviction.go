package pagecache

import (
	"sort"
	"time"
)

// Eviction score weights. The recency term is measured in milliseconds
// and dominates the frequency term for all but very fresh pages, so the
// policy behaves close to least-recently-used with a frequency
// tiebreak.
const (
	frequencyWeight = 0.7
	recencyWeight   = 0.3
)

// evictionScore ranks a page for removal; lower scores go first.
func evictionScore[T any](entry *cachedPage[T], now time.Time) float64 {
	age := float64(now.Sub(entry.lastAccessed).Milliseconds())
	return float64(entry.accessCount)*frequencyWeight - age*recencyWeight
}

// evictLocked removes the lowest scoring pages until the store is back
// within MaxCachedPages. Score ties are broken by older lastAccessed,
// then lower page number, so eviction order is deterministic. Caller
// must hold c.mu.
func (c *Cache[T]) evictLocked() {
	defer func() {
		cachedPagesGauge.Set(float64(len(c.pages)))
	}()

	if len(c.pages) <= c.cfg.MaxCachedPages {
		return
	}

	now := c.now()
	type candidate struct {
		pageNumber   int
		score        float64
		lastAccessed time.Time
	}

	candidates := make([]candidate, 0, len(c.pages))
	for n, entry := range c.pages {
		candidates = append(candidates, candidate{
			pageNumber:   n,
			score:        evictionScore(entry, now),
			lastAccessed: entry.lastAccessed,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		if !candidates[i].lastAccessed.Equal(candidates[j].lastAccessed) {
			return candidates[i].lastAccessed.Before(candidates[j].lastAccessed)
		}
		return candidates[i].pageNumber < candidates[j].pageNumber
	})

	for _, cand := range candidates {
		if len(c.pages) <= c.cfg.MaxCachedPages {
			break
		}
		delete(c.pages, cand.pageNumber)
		evictionsTotal.Inc()
		c.logger.Debug().
			Int("page", cand.pageNumber).
			Float64("score", cand.score).
			Msg("Evicted page")
	}
}
