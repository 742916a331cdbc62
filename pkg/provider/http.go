package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// HTTPConfig holds the configuration for an HTTP page source.
type HTTPConfig struct {
	// BaseURL is the collection endpoint serving JSON arrays of items (required).
	BaseURL string

	// ItemURL is an optional item endpoint for direct lookup. The literal
	// "{id}" placeholder is replaced with the escaped item ID.
	ItemURL string

	// PageParam and SizeParam are the query parameter names for page
	// number and page size.
	PageParam string
	SizeParam string

	// TotalHeader is the response header carrying the total item count.
	TotalHeader string

	// UserAgent is sent with every request.
	UserAgent string

	// RequestsPerSecond throttles outgoing requests; zero disables throttling.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Retry configures backoff for retriable errors.
	Retry RetryConfig
}

// DefaultHTTPConfig returns a safe default configuration for the given endpoint.
func DefaultHTTPConfig(baseURL string) HTTPConfig {
	return HTTPConfig{
		BaseURL:           baseURL,
		PageParam:         "page",
		SizeParam:         "size",
		TotalHeader:       "X-Total-Count",
		RequestsPerSecond: 10,
		Burst:             5,
		Timeout:           30 * time.Second,
		Retry:             DefaultRetryConfig(),
	}
}

// HTTPProvider serves pages from a paged JSON HTTP API. Requests are
// rate limited client-side and retried with exponential backoff for
// server, throttle, and network errors.
type HTTPProvider[T any] struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	base       *url.URL
	config     HTTPConfig
	logger     zerolog.Logger
}

// NewHTTPProvider creates a new HTTP page source.
func NewHTTPProvider[T any](cfg HTTPConfig) (*HTTPProvider[T], error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	if cfg.PageParam == "" {
		cfg.PageParam = "page"
	}
	if cfg.SizeParam == "" {
		cfg.SizeParam = "size"
	}
	if cfg.TotalHeader == "" {
		cfg.TotalHeader = "X-Total-Count"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &HTTPProvider[T]{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		base:       base,
		config:     cfg,
		logger:     log.With().Str("component", "http-provider").Logger(),
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (p *HTTPProvider[T]) SetHTTPClient(client *http.Client) {
	p.httpClient = client
}

// TotalCount fetches the total item count by requesting a minimal
// single-item page and reading the configured total header.
func (p *HTTPProvider[T]) TotalCount(ctx context.Context) (int, error) {
	resp, err := p.get(ctx, p.pageURL(1, 1))
	if err != nil {
		return 0, fmt.Errorf("fetch total count: %w", err)
	}
	defer resp.Body.Close()

	header := resp.Header.Get(p.config.TotalHeader)
	if header == "" {
		return 0, fmt.Errorf("fetch total count: response missing %s header", p.config.TotalHeader)
	}
	count, err := strconv.Atoi(header)
	if err != nil {
		return 0, fmt.Errorf("fetch total count: parse %s header %q: %w", p.config.TotalHeader, header, err)
	}
	return count, nil
}

// FetchPage fetches the 1-based page of the given size and decodes it as
// a JSON array of items.
func (p *HTTPProvider[T]) FetchPage(ctx context.Context, pageNumber, pageSize int) ([]T, error) {
	resp, err := p.get(ctx, p.pageURL(pageNumber, pageSize))
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", pageNumber, err)
	}
	defer resp.Body.Close()

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", pageNumber, err)
	}
	return items, nil
}

// FetchItem fetches a single item by ID from the configured item
// endpoint. Returns ErrLookupUnsupported when no ItemURL is configured
// and ErrItemNotFound when the source answers 404.
func (p *HTTPProvider[T]) FetchItem(ctx context.Context, id string) (T, error) {
	var zero T
	if p.config.ItemURL == "" {
		return zero, ErrLookupUnsupported
	}

	rawURL := strings.Replace(p.config.ItemURL, "{id}", url.PathEscape(id), 1)
	resp, err := p.get(ctx, rawURL)
	if err != nil {
		var srcErr *SourceError
		if errors.As(err, &srcErr) && srcErr.StatusCode == http.StatusNotFound {
			return zero, fmt.Errorf("%w: %q", ErrItemNotFound, id)
		}
		return zero, fmt.Errorf("fetch item %q: %w", id, err)
	}
	defer resp.Body.Close()

	var item T
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return zero, fmt.Errorf("decode item %q: %w", id, err)
	}
	return item, nil
}

// get performs a rate limited GET with retry and error classification.
// The response body is open on success; callers must close it.
func (p *HTTPProvider[T]) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	defer func() {
		sourceRequestDuration.WithLabelValues("http").Observe(time.Since(start).Seconds())
	}()

	var resp *http.Response
	err := retryWithBackoff(ctx, p.config.Retry, func() (ErrorClass, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return ErrorClassClient, fmt.Errorf("create request: %w", err)
		}
		if p.config.UserAgent != "" {
			req.Header.Set("User-Agent", p.config.UserAgent)
		}
		req.Header.Set("Accept", "application/json")

		r, reqErr := p.httpClient.Do(req)
		if reqErr != nil {
			p.logger.Warn().Err(reqErr).Str("url", rawURL).Msg("HTTP request failed")
			sourceRequestsTotal.WithLabelValues("http", "network_error").Inc()
			return ErrorClassNetwork, fmt.Errorf("http get: %w", reqErr)
		}

		if r.StatusCode != http.StatusOK {
			class := classifyStatus(r.StatusCode)
			sourceRequestsTotal.WithLabelValues("http", strconv.Itoa(r.StatusCode)).Inc()
			p.logger.Warn().
				Str("url", rawURL).
				Int("status", r.StatusCode).
				Str("error_class", string(class)).
				Msg("Page source request error")
			r.Body.Close()
			return class, &SourceError{StatusCode: r.StatusCode, Class: class, Message: r.Status}
		}

		sourceRequestsTotal.WithLabelValues("http", strconv.Itoa(r.StatusCode)).Inc()
		resp = r
		return "", nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// pageURL builds the collection URL for a page request.
func (p *HTTPProvider[T]) pageURL(pageNumber, pageSize int) string {
	u := *p.base
	q := u.Query()
	q.Set(p.config.PageParam, strconv.Itoa(pageNumber))
	q.Set(p.config.SizeParam, strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	return u.String()
}

// classifyStatus categorizes an HTTP status for retry decisions and metrics.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassThrottle
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}
