// Package testutil provides testing utilities for the monitoring
// subsystem.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior of a mock upstream endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockRemote is a configurable mock bond data server for testing.
type MockRemote struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	requestCount int
	perKey       map[string]int
}

// NewMockRemote creates a mock upstream server. Unconfigured keys
// return 404.
func NewMockRemote() *MockRemote {
	mock := &MockRemote{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		perKey:   make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requestCount++
		mock.perKey[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		http.NotFound(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockRemote) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockRemote) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockRemote) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.perKey = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockRemote) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetBond configures the response served for one bond key.
func (m *MockRemote) SetBond(key string, resp MockResponse) {
	m.SetHandler("/"+key, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for header, value := range resp.Headers {
			w.Header().Set(header, value)
		}

		status := resp.StatusCode
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// FailBond makes the key answer with the given status on every request.
func (m *MockRemote) FailBond(key string, statusCode int) {
	m.SetBond(key, MockResponse{StatusCode: statusCode})
}

// RequestCount returns the total number of requests served.
func (m *MockRemote) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// RequestsFor returns how often one bond key was requested.
func (m *MockRemote) RequestsFor(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perKey["/"+key]
}
