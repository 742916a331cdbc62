package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client. Tests are skipped when no
// local Redis is reachable; the integration suite covers the same paths
// against a containerized instance.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

// seedRedisList pushes n JSON documents onto the list key.
func seedRedisList(t *testing.T, client *redis.Client, key string, items []sliceItem) {
	t.Helper()

	ctx := context.Background()
	for _, item := range items {
		doc, err := json.Marshal(item)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if err := client.RPush(ctx, key, doc).Err(); err != nil {
			t.Fatalf("RPush failed: %v", err)
		}
	}
}

func TestNewRedisProvider_Validation(t *testing.T) {
	if _, err := NewRedisProvider[sliceItem](RedisConfig{ListKey: "items"}); err == nil {
		t.Error("Missing client should fail")
	}

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	if _, err := NewRedisProvider[sliceItem](RedisConfig{Client: client}); err == nil {
		t.Error("Missing list key should fail")
	}
}

func TestRedisProvider_TotalCount(t *testing.T) {
	client := setupTestRedis(t)
	seedRedisList(t, client, "items", makeSliceItems(23))

	p, err := NewRedisProvider[sliceItem](RedisConfig{Client: client, ListKey: "items"})
	if err != nil {
		t.Fatalf("NewRedisProvider failed: %v", err)
	}

	count, err := p.TotalCount(context.Background())
	if err != nil {
		t.Fatalf("TotalCount failed: %v", err)
	}
	if count != 23 {
		t.Errorf("TotalCount = %d, want 23", count)
	}
}

func TestRedisProvider_FetchPage(t *testing.T) {
	client := setupTestRedis(t)
	seedRedisList(t, client, "items", makeSliceItems(25))

	p, err := NewRedisProvider[sliceItem](RedisConfig{Client: client, ListKey: "items"})
	if err != nil {
		t.Fatalf("NewRedisProvider failed: %v", err)
	}
	ctx := context.Background()

	items, err := p.FetchPage(ctx, 2, 10)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("len(items) = %d, want 10", len(items))
	}
	if items[0].ID != "item-010" {
		t.Errorf("First item = %s, want item-010", items[0].ID)
	}

	// Partial last page
	items, err = p.FetchPage(ctx, 3, 10)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("len(items) = %d, want 5", len(items))
	}

	// Beyond the dataset
	items, err = p.FetchPage(ctx, 9, 10)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestRedisProvider_FetchPage_Invalid(t *testing.T) {
	client := setupTestRedis(t)

	p, err := NewRedisProvider[sliceItem](RedisConfig{Client: client, ListKey: "items"})
	if err != nil {
		t.Fatalf("NewRedisProvider failed: %v", err)
	}

	if _, err := p.FetchPage(context.Background(), 0, 10); err == nil {
		t.Error("Page 0 should fail")
	}
	if _, err := p.FetchPage(context.Background(), 1, 0); err == nil {
		t.Error("Page size 0 should fail")
	}
}

func TestRedisProvider_FetchPage_MalformedDocument(t *testing.T) {
	client := setupTestRedis(t)
	if err := client.RPush(context.Background(), "items", "not json").Err(); err != nil {
		t.Fatalf("RPush failed: %v", err)
	}

	p, err := NewRedisProvider[sliceItem](RedisConfig{Client: client, ListKey: "items"})
	if err != nil {
		t.Fatalf("NewRedisProvider failed: %v", err)
	}

	if _, err := p.FetchPage(context.Background(), 1, 10); err == nil {
		t.Error("Malformed document should fail to decode")
	}
}

func TestRedisProvider_FetchItem(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	doc, err := json.Marshal(sliceItem{ID: "item-007", Name: "Item 7"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := client.HSet(ctx, "items:by-id", "item-007", doc).Err(); err != nil {
		t.Fatalf("HSet failed: %v", err)
	}

	p, err := NewRedisProvider[sliceItem](RedisConfig{
		Client:  client,
		ListKey: "items",
		ItemKey: "items:by-id",
	})
	if err != nil {
		t.Fatalf("NewRedisProvider failed: %v", err)
	}

	item, err := p.FetchItem(ctx, "item-007")
	if err != nil {
		t.Fatalf("FetchItem failed: %v", err)
	}
	if item.Name != "Item 7" {
		t.Errorf("Name = %s, want Item 7", item.Name)
	}

	if _, err := p.FetchItem(ctx, "missing"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}
}

func TestRedisProvider_FetchItem_Unsupported(t *testing.T) {
	client := setupTestRedis(t)

	p, err := NewRedisProvider[sliceItem](RedisConfig{Client: client, ListKey: "items"})
	if err != nil {
		t.Fatalf("NewRedisProvider failed: %v", err)
	}

	if _, err := p.FetchItem(context.Background(), "item-007"); !errors.Is(err, ErrLookupUnsupported) {
		t.Errorf("Expected ErrLookupUnsupported, got %v", err)
	}
}
