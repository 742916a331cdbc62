package pagecache

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// prefetchConcurrency bounds parallel source fetches per prefetch burst.
const prefetchConcurrency = 4

// prefetchAround warms the pages within PreloadPages of the served
// page, skipping pages already cached or in flight. Warming is fire and
// forget: it runs detached from the caller's cancellation and failures
// never surface. Loads still go through the flight group, so a
// foreground GetPage racing a prefetch shares its fetch.
func (c *Cache[T]) prefetchAround(ctx context.Context, pageNumber int) {
	c.mu.Lock()
	radius := c.cfg.PreloadPages
	totalPages := c.totalPagesLocked()

	var targets []int
	for i := 1; i <= radius; i++ {
		for _, n := range [2]int{pageNumber + i, pageNumber - i} {
			if n < 1 || n > totalPages {
				continue
			}
			if _, ok := c.pages[n]; ok {
				continue
			}
			if _, ok := c.inflight[n]; ok {
				continue
			}
			targets = append(targets, n)
		}
	}
	c.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	// The caller's page is already served when warming starts; its
	// cancellation must not abort the warm-up.
	bg := context.WithoutCancel(ctx)

	c.prefetchWG.Add(1)
	go func() {
		defer c.prefetchWG.Done()

		g := new(errgroup.Group)
		g.SetLimit(prefetchConcurrency)
		for _, n := range targets {
			g.Go(func() error {
				if _, err := c.loadPage(bg, n); err != nil {
					prefetchTotal.WithLabelValues("error").Inc()
					return nil
				}
				prefetchTotal.WithLabelValues("success").Inc()
				return nil
			})
		}
		_ = g.Wait()
	}()
}
