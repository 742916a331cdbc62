// Package testutil provides testing utilities for the page cache.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockSource is a configurable paginated HTTP data source for testing.
// The default handler serves the configured items as JSON arrays, sliced
// by the page and size query parameters, with the dataset size exposed in
// the X-Total-Count header.
type MockSource struct {
	server *httptest.Server
	mu     sync.RWMutex

	items    []any
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	delay         time.Duration
	failRemaining int
	failStatus    int

	// Tracking
	RequestCount      int
	PageRequests      map[int]int
	LastRequestHeader http.Header
}

// NewMockSource creates a new mock source serving the given items.
func NewMockSource(items []any) *MockSource {
	mock := &MockSource{
		items:        items,
		handlers:     make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PageRequests: make(map[int]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		delay := mock.delay
		failing := mock.failRemaining > 0
		failStatus := mock.failStatus
		if failing {
			mock.failRemaining--
		}
		mock.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		if failing {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(failStatus)
			w.Write([]byte(`{"error": "injected failure"}`))
			return
		}

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default handler
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockSource) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSource) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and pending failures.
func (m *MockSource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PageRequests = make(map[int]int)
	m.LastRequestHeader = nil
	m.failRemaining = 0
}

// SetHandler sets a custom handler for a specific path.
func (m *MockSource) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetItems replaces the served dataset.
func (m *MockSource) SetItems(items []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

// SetDelay applies a fixed delay to every request.
func (m *MockSource) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// FailNext makes the next n requests fail with the given HTTP status.
func (m *MockSource) FailNext(n, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRemaining = n
	m.failStatus = status
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSource) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPageRequests returns the number of requests for a specific page.
func (m *MockSource) GetPageRequests(page int) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PageRequests[page]
}

// defaultHandler serves a page of the configured dataset.
func (m *MockSource) defaultHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page := 1
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, `{"error": "invalid page"}`, http.StatusBadRequest)
			return
		}
		page = parsed
	}

	size := 50
	if raw := query.Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			http.Error(w, `{"error": "invalid size"}`, http.StatusBadRequest)
			return
		}
		size = parsed
	}

	m.mu.Lock()
	m.PageRequests[page]++
	items := m.items
	m.mu.Unlock()

	lo := (page - 1) * size
	hi := lo + size
	if lo > len(items) {
		lo = len(items)
	}
	if hi > len(items) {
		hi = len(items)
	}

	body, err := json.Marshal(items[lo:hi])
	if err != nil {
		http.Error(w, `{"error": "marshal failure"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Total-Count", strconv.Itoa(len(items)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
