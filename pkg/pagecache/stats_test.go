package pagecache

import (
	"context"
	"testing"
)

func TestCache_Stats(t *testing.T) {
	c, _ := newTestCache(t, 45, Config{PageSize: 10, MaxCachedPages: 5})
	ctx := context.Background()

	// Three accesses to page 1, one to page 2.
	for _, page := range []int{1, 1, 1, 2} {
		if _, err := c.GetPage(ctx, page); err != nil {
			t.Fatalf("GetPage(%d) failed: %v", page, err)
		}
	}

	stats := c.Stats()
	if stats.CachedPages != 2 {
		t.Errorf("CachedPages = %d, want 2", stats.CachedPages)
	}
	if stats.TotalCacheSize != 20 {
		t.Errorf("TotalCacheSize = %d, want 20", stats.TotalCacheSize)
	}
	if len(stats.MostAccessedPages) != 2 {
		t.Fatalf("len(MostAccessedPages) = %d, want 2", len(stats.MostAccessedPages))
	}
	top := stats.MostAccessedPages[0]
	if top.PageNumber != 1 || top.AccessCount != 3 {
		t.Errorf("Top page = %+v, want page 1 with 3 accesses", top)
	}

	// 3 of the 4 recorded accesses belong to a repeatedly used page.
	if want := 0.75; stats.HitRate != want {
		t.Errorf("HitRate = %v, want %v", stats.HitRate, want)
	}
}

func TestCache_Stats_Empty(t *testing.T) {
	c, _ := newTestCache(t, 45, Config{PageSize: 10, MaxCachedPages: 5})

	stats := c.Stats()
	if stats.CachedPages != 0 || stats.TotalCacheSize != 0 || stats.HitRate != 0 {
		t.Errorf("Empty cache stats = %+v, want zeros", stats)
	}
	if len(stats.MostAccessedPages) != 0 {
		t.Errorf("MostAccessedPages = %v, want empty", stats.MostAccessedPages)
	}
}

func TestCache_Stats_TopPagesCapped(t *testing.T) {
	c, _ := newTestCache(t, 200, Config{PageSize: 10, MaxCachedPages: 10})
	ctx := context.Background()

	// Touch lower page numbers more often so the ranking is known.
	for page := 1; page <= 8; page++ {
		for i := 0; i < 9-page; i++ {
			if _, err := c.GetPage(ctx, page); err != nil {
				t.Fatalf("GetPage(%d) failed: %v", page, err)
			}
		}
	}

	stats := c.Stats()
	if len(stats.MostAccessedPages) != 5 {
		t.Fatalf("len(MostAccessedPages) = %d, want 5", len(stats.MostAccessedPages))
	}
	for i, access := range stats.MostAccessedPages {
		wantPage := i + 1
		wantCount := 9 - wantPage
		if access.PageNumber != wantPage || access.AccessCount != wantCount {
			t.Errorf("MostAccessedPages[%d] = %+v, want page %d with %d accesses",
				i, access, wantPage, wantCount)
		}
	}
}

func TestCache_Stats_PartialLastPage(t *testing.T) {
	c, _ := newTestCache(t, 25, Config{PageSize: 10, MaxCachedPages: 5})
	ctx := context.Background()

	for page := 1; page <= 3; page++ {
		if _, err := c.GetPage(ctx, page); err != nil {
			t.Fatalf("GetPage(%d) failed: %v", page, err)
		}
	}

	// Pages of 10, 10 and 5 items.
	if got := c.Stats().TotalCacheSize; got != 25 {
		t.Errorf("TotalCacheSize = %d, want 25", got)
	}
}
