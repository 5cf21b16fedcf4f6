// Package testutil provides test doubles for the match service.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// MockLexicon is a scriptable upstream lexicon service. It serves
// GET /lexicon like the real thing and misbehaves on request, so resilience
// behavior can be asserted over a real HTTP hop.
type MockLexicon struct {
	server *httptest.Server

	mu            sync.Mutex
	entries       []lexicon.Entry
	failRemaining int
	failStatus    int
	delay         time.Duration
	requestCount  int
	lastUtterance string
}

// NewMockLexicon starts the mock with an empty lexicon and no failures.
// Callers own Close.
func NewMockLexicon() *MockLexicon {
	m := &MockLexicon{failStatus: http.StatusInternalServerError}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// URL returns the mock server base URL.
func (m *MockLexicon) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockLexicon) Close() {
	m.server.Close()
}

// SetEntries replaces the served lexicon.
func (m *MockLexicon) SetEntries(entries []lexicon.Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
}

// FailNext makes the next n requests fail with status. n < 0 fails every
// request until the next FailNext call.
func (m *MockLexicon) FailNext(n int, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRemaining = n
	m.failStatus = status
}

// SetDelay delays every response. Combine with a short attempt timeout to
// force timeout classification.
func (m *MockLexicon) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// RequestCount returns how many requests the mock has served.
func (m *MockLexicon) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// LastUtterance returns the utterance query of the most recent request.
func (m *MockLexicon) LastUtterance() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUtterance
}

// Reset clears counters, failures, and delay, keeping the entries.
func (m *MockLexicon) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.lastUtterance = ""
	m.failRemaining = 0
	m.failStatus = http.StatusInternalServerError
	m.delay = 0
}

func (m *MockLexicon) handle(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.requestCount++
	m.lastUtterance = r.URL.Query().Get("utterance")
	delay := m.delay
	fail := m.failRemaining != 0
	if m.failRemaining > 0 {
		m.failRemaining--
	}
	status := m.failStatus
	entries := m.entries
	m.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error": "lexicon unavailable"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if entries == nil {
		entries = []lexicon.Entry{}
	}
	_ = json.NewEncoder(w).Encode(entries)
}
