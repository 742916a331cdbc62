package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RedisConfig holds the configuration for a Redis-backed page source.
type RedisConfig struct {
	// Client is the Redis client (required).
	Client *redis.Client

	// ListKey is the list holding the dataset as JSON documents in page
	// order (required).
	ListKey string

	// ItemKey is an optional hash mapping item IDs to JSON documents.
	// Leave empty to disable direct item lookup.
	ItemKey string
}

// RedisProvider serves pages from a Redis list of JSON documents. Page
// boundaries map directly onto LRANGE offsets, so the list order is the
// dataset order.
type RedisProvider[T any] struct {
	redis  *redis.Client
	config RedisConfig
	logger zerolog.Logger
}

// NewRedisProvider creates a new Redis page source.
func NewRedisProvider[T any](cfg RedisConfig) (*RedisProvider[T], error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.ListKey == "" {
		return nil, fmt.Errorf("list key is required")
	}

	return &RedisProvider[T]{
		redis:  cfg.Client,
		config: cfg,
		logger: log.With().Str("component", "redis-provider").Logger(),
	}, nil
}

// TotalCount reports the length of the backing list.
func (p *RedisProvider[T]) TotalCount(ctx context.Context) (int, error) {
	n, err := p.redis.LLen(ctx, p.config.ListKey).Result()
	if err != nil {
		sourceRequestsTotal.WithLabelValues("redis", "error").Inc()
		return 0, fmt.Errorf("redis llen %s: %w", p.config.ListKey, err)
	}
	sourceRequestsTotal.WithLabelValues("redis", "ok").Inc()
	return int(n), nil
}

// FetchPage reads the 1-based page of the given size via LRANGE and
// decodes each element as a JSON document.
func (p *RedisProvider[T]) FetchPage(ctx context.Context, pageNumber, pageSize int) ([]T, error) {
	if pageNumber < 1 || pageSize < 1 {
		return nil, fmt.Errorf("invalid page request: page %d size %d", pageNumber, pageSize)
	}

	start := time.Now()
	defer func() {
		sourceRequestDuration.WithLabelValues("redis").Observe(time.Since(start).Seconds())
	}()

	lo := int64(pageNumber-1) * int64(pageSize)
	hi := lo + int64(pageSize) - 1

	raw, err := p.redis.LRange(ctx, p.config.ListKey, lo, hi).Result()
	if err != nil {
		sourceRequestsTotal.WithLabelValues("redis", "error").Inc()
		return nil, fmt.Errorf("redis lrange %s [%d, %d]: %w", p.config.ListKey, lo, hi, err)
	}
	sourceRequestsTotal.WithLabelValues("redis", "ok").Inc()

	items := make([]T, 0, len(raw))
	for i, doc := range raw {
		var item T
		if err := json.Unmarshal([]byte(doc), &item); err != nil {
			return nil, fmt.Errorf("decode list element %d: %w", int(lo)+i, err)
		}
		items = append(items, item)
	}

	p.logger.Debug().
		Int("page", pageNumber).
		Int("items", len(items)).
		Msg("Fetched page from Redis")

	return items, nil
}

// FetchItem looks up a single item by ID in the configured hash.
// Returns ErrLookupUnsupported when no ItemKey is configured and
// ErrItemNotFound when the hash has no field for the ID.
func (p *RedisProvider[T]) FetchItem(ctx context.Context, id string) (T, error) {
	var zero T
	if p.config.ItemKey == "" {
		return zero, ErrLookupUnsupported
	}

	doc, err := p.redis.HGet(ctx, p.config.ItemKey, id).Result()
	if err != nil {
		if err == redis.Nil {
			return zero, fmt.Errorf("%w: %q", ErrItemNotFound, id)
		}
		sourceRequestsTotal.WithLabelValues("redis", "error").Inc()
		return zero, fmt.Errorf("redis hget %s %s: %w", p.config.ItemKey, id, err)
	}
	sourceRequestsTotal.WithLabelValues("redis", "ok").Inc()

	var item T
	if err := json.Unmarshal([]byte(doc), &item); err != nil {
		return zero, fmt.Errorf("decode item %q: %w", id, err)
	}
	return item, nil
}
