package cache

import (
	"testing"
	"time"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// testClock pins the store to a controllable time.
type testClock struct {
	current time.Time
}

func (c *testClock) now() time.Time {
	return c.current
}

func (c *testClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestStore() (*Store, *testClock) {
	clock := &testClock{current: time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)}
	store := NewStore()
	store.now = clock.now
	return store, clock
}

var testEntries = []lexicon.Entry{
	{Task: "CheckOrderStatusTask", Phrases: []string{"chek order"}},
}

func TestStoreFreshThenStaleThenGone(t *testing.T) {
	store, clock := newTestStore()
	key := Key("chek order")

	store.Set(key, testEntries, 60*time.Second, 30*time.Minute)

	if _, ok := store.GetFresh(key); !ok {
		t.Fatal("expected fresh hit immediately after Set")
	}

	clock.advance(2 * time.Minute)
	if _, ok := store.GetFresh(key); ok {
		t.Error("expected fresh miss after the fresh window")
	}
	entry, ok := store.GetServable(key)
	if !ok {
		t.Fatal("expected servable hit inside the stale window")
	}
	if len(entry.Entries) != 1 || entry.Entries[0].Task != "CheckOrderStatusTask" {
		t.Errorf("unexpected entries: %+v", entry.Entries)
	}

	clock.advance(time.Hour)
	if _, ok := store.GetServable(key); ok {
		t.Error("expected servable miss after the stale window")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy eviction", store.Len())
	}
}

func TestStoreMissOnUnknownKey(t *testing.T) {
	store, _ := newTestStore()

	if _, ok := store.GetFresh(Key("nothing")); ok {
		t.Error("expected fresh miss for unknown key")
	}
	if _, ok := store.GetServable(Key("nothing")); ok {
		t.Error("expected servable miss for unknown key")
	}
}

func TestStoreSetRaisesShortStaleTTL(t *testing.T) {
	store, clock := newTestStore()
	key := Key("k")

	store.Set(key, testEntries, time.Minute, time.Second)

	clock.advance(30 * time.Second)
	if _, ok := store.GetServable(key); !ok {
		t.Error("stale window must cover at least the fresh window")
	}
}

func TestStoreOverwriteReplacesSnapshot(t *testing.T) {
	store, clock := newTestStore()
	key := Key("k")

	store.Set(key, testEntries, time.Minute, time.Hour)
	clock.advance(30 * time.Minute)

	replacement := []lexicon.Entry{{Task: "RefundRequestTask", Phrases: []string{"refund"}}}
	store.Set(key, replacement, time.Minute, time.Hour)

	entry, ok := store.GetFresh(key)
	if !ok {
		t.Fatal("expected fresh hit after overwrite")
	}
	if entry.Entries[0].Task != "RefundRequestTask" {
		t.Errorf("Task = %q, want RefundRequestTask", entry.Entries[0].Task)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
}

func TestStoreStaleSurvivesFreshExpiry(t *testing.T) {
	store, clock := newTestStore()
	key := Key("k")

	store.Set(key, testEntries, time.Minute, time.Hour)
	clock.advance(5 * time.Minute)

	// A fresh miss must not evict; the snapshot still masks failures.
	if _, ok := store.GetFresh(key); ok {
		t.Fatal("expected fresh miss")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (stale snapshot must stay)", store.Len())
	}
	if _, ok := store.GetServable(key); !ok {
		t.Error("expected servable hit")
	}
}
