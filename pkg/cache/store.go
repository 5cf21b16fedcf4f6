package cache

import (
	"sync"
	"time"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// Store holds lexicon snapshots keyed by normalized utterance. It is safe
// for concurrent use. Entries past their stale window are evicted lazily
// on lookup; there is no background sweeper.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]*Entry

	// now is swapped out by tests.
	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[Key]*Entry),
		now:     time.Now,
	}
}

// GetFresh returns the snapshot for key while it is inside its fresh
// window. A snapshot that is merely stale stays put: it may still be
// needed to mask a failure.
func (s *Store) GetFresh(key Key) (*Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || !entry.IsFresh(s.now()) {
		return nil, false
	}
	return entry, true
}

// GetServable returns the snapshot for key while it is inside its stale
// window. A snapshot past that window is evicted.
func (s *Store) GetServable(key Key) (*Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if !entry.IsServable(s.now()) {
		s.evict(key, entry)
		return nil, false
	}
	return entry, true
}

// Set installs a snapshot under key. Both expiry tiers are computed from
// one clock reading and the entry lands in a single map write, so readers
// never observe a fresh horizon without its stale counterpart. A stale TTL
// shorter than the fresh TTL is raised to it.
func (s *Store) Set(key Key, entries []lexicon.Entry, freshTTL, staleTTL time.Duration) {
	if staleTTL < freshTTL {
		staleTTL = freshTTL
	}
	now := s.now()
	entry := &Entry{
		Entries:    entries,
		CachedAt:   now,
		FreshUntil: now.Add(freshTTL),
		StaleUntil: now.Add(staleTTL),
	}

	s.mu.Lock()
	s.entries[key] = entry
	cacheEntries.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// Len reports the number of cached keys, expired ones included until a
// lookup evicts them.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evict removes the entry under key unless a newer snapshot raced in
// between our read and this write.
func (s *Store) evict(key Key, seen *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.entries[key]
	if !ok || current != seen {
		return
	}
	delete(s.entries, key)
	cacheEvictions.Inc()
	cacheEntries.Set(float64(len(s.entries)))
}
