package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/pagecache/pkg/logging"
	"github.com/Sternrassler/pagecache/pkg/pagecache"
	"github.com/Sternrassler/pagecache/pkg/provider"
)

// Item is the record type served by this demo server.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "false") == "true",
		Output: os.Stderr,
	})

	cfg := pagecache.Config{
		PageSize:       getEnvInt("PAGE_SIZE", 50),
		MaxCachedPages: getEnvInt("MAX_CACHED_PAGES", 10),
		PreloadPages:   getEnvInt("PRELOAD_PAGES", 2),
	}

	source, err := buildSource(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to build page source")
	}

	cache := pagecache.New[Item](source, cfg)
	defer cache.Close()

	if err := cache.Initialize(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize cache")
	}

	mux := newServeMux(cache)
	addr := ":" + getEnv("PORT", "8080")
	logger.Info().
		Str("addr", addr).
		Int("page_size", cfg.PageSize).
		Int("max_cached_pages", cfg.MaxCachedPages).
		Int("preload_pages", cfg.PreloadPages).
		Msg("Starting pagecache server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// buildSource selects the backing data source from the environment.
func buildSource(logger zerolog.Logger) (pagecache.DataProvider[Item], error) {
	switch mode := getEnv("SOURCE", "memory"); mode {
	case "memory":
		count := getEnvInt("ITEM_COUNT", 1000)
		p := provider.NewSliceProvider(generateItems(count))
		p.SetIDFunc(func(item Item) string { return item.ID })
		logger.Info().Int("items", count).Msg("Using in-memory page source")
		return p, nil

	case "redis":
		redisURL := getEnv("REDIS_URL", "localhost:6379")
		client := redis.NewClient(&redis.Options{Addr: redisURL})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", redisURL, err)
		}
		logger.Info().Str("addr", redisURL).Msg("Connected to Redis")
		return provider.NewRedisProvider[Item](provider.RedisConfig{
			Client:  client,
			ListKey: getEnv("REDIS_LIST_KEY", "pagecache:items"),
			ItemKey: getEnv("REDIS_ITEM_KEY", "pagecache:items:by-id"),
		})

	default:
		return nil, fmt.Errorf("unknown SOURCE %q (want memory or redis)", mode)
	}
}

// generateItems builds a deterministic demo dataset.
func generateItems(n int) []Item {
	categories := []string{"alpha", "beta", "gamma", "delta"}
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:       fmt.Sprintf("item-%06d", i),
			Name:     fmt.Sprintf("Item %d", i),
			Category: categories[i%len(categories)],
		}
	}
	return items
}

// newServeMux wires the HTTP API around the cache.
func newServeMux(cache *pagecache.Cache[Item]) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /pages/{page}", pageHandler(cache))
	mux.HandleFunc("GET /items", rangeHandler(cache))
	mux.HandleFunc("GET /items/{id}", itemHandler(cache))
	mux.HandleFunc("GET /search", searchHandler(cache))
	mux.HandleFunc("GET /stats", statsHandler(cache))
	mux.HandleFunc("POST /cache/clear", clearHandler(cache))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func pageHandler(cache *pagecache.Cache[Item]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.PathValue("page"))
		if err != nil || page < 1 {
			writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}

		data, err := cache.GetPage(r.Context(), page)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, data)
	}
}

func rangeHandler(cache *pagecache.Cache[Item]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := strconv.Atoi(r.URL.Query().Get("start"))
		if err != nil || start < 0 {
			writeError(w, http.StatusBadRequest, "start must be a non-negative integer")
			return
		}
		end, err := strconv.Atoi(r.URL.Query().Get("end"))
		if err != nil || end < start {
			writeError(w, http.StatusBadRequest, "end must be an integer >= start")
			return
		}
		const maxRangeItems = 10000
		if end-start >= maxRangeItems {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("range must span at most %d items", maxRangeItems))
			return
		}

		items, err := cache.GetItemRange(r.Context(), start, end)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items": items,
			"start": start,
			"end":   end,
		})
	}
}

func itemHandler(cache *pagecache.Cache[Item]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := cache.GetItemByID(r.Context(), r.PathValue("id"))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, item)
		case errors.Is(err, pagecache.ErrLookupUnsupported):
			writeError(w, http.StatusNotImplemented, "item lookup not supported by the configured source")
		case errors.Is(err, provider.ErrItemNotFound):
			writeError(w, http.StatusNotFound, "item not found")
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
	}
}

func searchHandler(cache *pagecache.Cache[Item]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == "" {
			writeError(w, http.StatusBadRequest, "q parameter is required")
			return
		}
		max := 20
		if raw := r.URL.Query().Get("max"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				writeError(w, http.StatusBadRequest, "max must be a positive integer")
				return
			}
			max = parsed
		}

		needle := strings.ToLower(q)
		result, err := cache.SearchItems(r.Context(), func(item Item) bool {
			return strings.Contains(strings.ToLower(item.Name), needle) ||
				strings.Contains(item.Category, needle)
		}, max)
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func statsHandler(cache *pagecache.Cache[Item]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, cache.Stats())
	}
}

func clearHandler(cache *pagecache.Cache[Item]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache.Clear()
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("Ignoring non-integer environment value")
		return defaultValue
	}
	return value
}
