package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/pagecache/pkg/pagecache"
	"github.com/Sternrassler/pagecache/pkg/provider"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestCacheMetricsGatherable(t *testing.T) {
	type item struct {
		ID string
	}
	p := provider.NewSliceProvider([]item{{"a"}, {"b"}, {"c"}})

	c := pagecache.New[item](p, pagecache.Config{PageSize: 2, MaxCachedPages: 2})
	c.SetLogger(zerolog.Nop())
	defer c.Close()

	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if _, err := c.GetPage(context.Background(), 1); err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	// The cache registers its series against the default registry, so a
	// cold page access must surface through the package-level Registry.
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() != "pagecache_misses_total" {
			continue
		}
		found = true
		if len(mf.GetMetric()) == 0 || mf.GetMetric()[0].GetCounter().GetValue() < 1 {
			t.Error("Expected pagecache_misses_total >= 1 after a cold page access")
		}
	}
	if !found {
		t.Error("Expected pagecache_misses_total in the default registry")
	}
}
