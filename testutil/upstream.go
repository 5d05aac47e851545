package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// RecordedRequest is one call received by a FakeUpstream
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Route is a canned response
type Route struct {
	Status int
	Body   string
}

// FakeUpstream is an httptest server standing in for the agent service.
// Routes are matched on the exact request path; anything else is a 404.
type FakeUpstream struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string]Route
	requests []RecordedRequest
}

// NewFakeUpstream starts a fake upstream that is closed when the test ends
func NewFakeUpstream(t *testing.T) *FakeUpstream {
	t.Helper()
	f := &FakeUpstream{routes: make(map[string]Route)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base endpoint of the fake
func (f *FakeUpstream) URL() string {
	return f.Server.URL
}

// Handle registers a JSON response for path
func (f *FakeUpstream) Handle(path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = Route{Status: status, Body: body}
}

// Requests returns every request received so far
func (f *FakeUpstream) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsFor returns the requests received for path
func (f *FakeUpstream) RequestsFor(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// LastRequest returns the most recent request, failing the test if none
func (f *FakeUpstream) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	reqs := f.Requests()
	if len(reqs) == 0 {
		t.Fatal("fake upstream received no requests")
	}
	return reqs[len(reqs)-1]
}

func (f *FakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	route, ok := f.routes[r.URL.Path]
	f.mu.Unlock()

	if !ok {
		route = Route{Status: http.StatusNotFound, Body: `{"error":{"code":"NotFound","message":"no such resource"}}`}
	}
	if route.Status == 0 {
		route.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(route.Status)
	_, _ = io.WriteString(w, route.Body)
}
