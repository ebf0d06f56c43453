// Package testutil provides testing utilities for the SWAPI client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultPageSize matches the page size of the public service.
const DefaultPageSize = 10

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockSWAPI is a configurable mock SWAPI server for testing.
//
// Collections registered with SetCollection are paginated the way the real
// service does it: page size 10, absolute next/previous cursors, 404 with
// {"detail": "Not found"} for pages outside the collection.
type MockSWAPI struct {
	server      *httptest.Server
	mu          sync.RWMutex
	handlers    map[string]func(w http.ResponseWriter, r *http.Request)
	collections map[string]collection

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	LastQuery         url.Values
	requests          []string
}

type collection struct {
	records  []any
	pageSize int
}

// NewMockSWAPI creates a new mock SWAPI server.
func NewMockSWAPI() *MockSWAPI {
	mock := &MockSWAPI{
		handlers:    make(map[string]func(w http.ResponseWriter, r *http.Request)),
		collections: make(map[string]collection),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.LastQuery = r.URL.Query()
		mock.requests = append(mock.requests, r.URL.RequestURI())
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL, usable as a client base URL.
func (m *MockSWAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSWAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockSWAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.LastQuery = nil
	m.requests = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockSWAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockSWAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetCollection serves records as a paginated collection at /{resource}.
// A pageSize of 0 selects DefaultPageSize.
func (m *MockSWAPI) SetCollection(resource string, records []any, pageSize int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections["/"+strings.Trim(resource, "/")] = collection{records: records, pageSize: pageSize}
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSWAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastQuery returns the query string of the most recent request.
func (m *MockSWAPI) GetLastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockSWAPI) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// Requests returns the request URIs received so far, in arrival order.
func (m *MockSWAPI) Requests() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.requests))
	copy(out, m.requests)
	return out
}

// defaultHandler serves registered collections and 404s everything else.
func (m *MockSWAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	m.mu.RLock()
	coll, ok := m.collections["/"+strings.Trim(r.URL.Path, "/")]
	m.mu.RUnlock()
	if !ok {
		writeNotFound(w)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeNotFound(w)
			return
		}
		page = n
	}

	start := (page - 1) * coll.pageSize
	if page < 1 || (start >= len(coll.records) && !(page == 1 && len(coll.records) == 0)) {
		writeNotFound(w)
		return
	}
	end := start + coll.pageSize
	if end > len(coll.records) {
		end = len(coll.records)
	}

	pageURL := func(n int) *string {
		s := fmt.Sprintf("%s%s?page=%d", m.server.URL, r.URL.Path, n)
		return &s
	}

	body := struct {
		Count    int     `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []any   `json:"results"`
	}{
		Count:   len(coll.records),
		Results: coll.records[start:end],
	}
	if end < len(coll.records) {
		body.Next = pageURL(page + 1)
	}
	if page > 1 {
		body.Previous = pageURL(page - 1)
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

func writeNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"detail": "Not found"}`))
}

// NewJSONResponse creates a 200 OK response with the given JSON body.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewNotFoundResponse creates the service's 404 response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"detail": "Not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// People returns n synthetic people records named "Person 1".."Person n".
func People(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]string{
			"name":      fmt.Sprintf("Person %d", i+1),
			"height":    strconv.Itoa(150 + i),
			"mass":      strconv.Itoa(50 + i),
			"created":   "2014-12-09T13:50:51.644000Z",
			"edited":    "2014-12-20T21:17:56.891000Z",
			"homeworld": "https://swapi.dev/api/planets/1/",
		}
	}
	return out
}

// Planets returns n synthetic planet records named "Planet 1".."Planet n".
func Planets(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]string{
			"name":       fmt.Sprintf("Planet %d", i+1),
			"diameter":   strconv.Itoa(10000 + i),
			"climate":    "arid",
			"population": strconv.Itoa(200000 + i),
			"url":        fmt.Sprintf("https://swapi.dev/api/planets/%d/", i+1),
		}
	}
	return out
}
