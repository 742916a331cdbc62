// Package provider contains ready-made page sources for the pagecache:
// an in-memory slice source, an HTTP/JSON source with rate limiting and
// retry, and a Redis list source.
//
// All sources implement the same structural contract consumed by
// pagecache.Cache:
//
//	TotalCount(ctx context.Context) (int, error)
//	FetchPage(ctx context.Context, pageNumber, pageSize int) ([]T, error)
//
// Sources that support direct lookup additionally implement:
//
//	FetchItem(ctx context.Context, id string) (T, error)
//
// # Basic Usage
//
//	// In-memory source over a static slice
//	src := provider.NewSliceProvider(items)
//
//	// HTTP source over a paged JSON API
//	cfg := provider.DefaultHTTPConfig("https://api.example.com/messages")
//	cfg.UserAgent = "my-dashboard/1.0.0"
//	src, err := provider.NewHTTPProvider[Message](cfg)
//
//	// Redis source over a list of JSON documents
//	src, err := provider.NewRedisProvider[Message](provider.RedisConfig{
//		Client:  redisClient,
//		ListKey: "messages",
//	})
//
// # Error Handling
//
// HTTP errors are classified (client, server, throttle, network) and only
// retriable classes are retried with exponential backoff and jitter.
// Exhausted retries surface as ErrRetryExhausted; direct lookups on a
// missing item surface as ErrItemNotFound.
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - pagesource_requests_total{provider, result} - Requests by source and outcome
//   - pagesource_request_duration_seconds{provider} - Request latency by source
//   - pagesource_retries_total{error_class} - Retry attempts by error class
//   - pagesource_retry_backoff_seconds{error_class} - Backoff durations
//   - pagesource_retry_exhausted_total{error_class} - Exhausted retry budgets
package provider
