package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// scriptedProvider counts calls and serves whatever the test scripts.
type scriptedProvider struct {
	mu      sync.Mutex
	calls   int
	entries []lexicon.Entry
	err     error
	delay   time.Duration
}

func (p *scriptedProvider) GetLexicon(_ context.Context, _ string) ([]lexicon.Entry, error) {
	p.mu.Lock()
	p.calls++
	entries, err, delay := p.entries, p.err, p.delay
	p.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *scriptedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func (p *scriptedProvider) script(entries []lexicon.Entry, err error) {
	p.mu.Lock()
	p.entries, p.err = entries, err
	p.mu.Unlock()
}

func TestLookupReadThrough(t *testing.T) {
	provider := &scriptedProvider{entries: testEntries}
	store, _ := newTestStore()
	lookup, err := NewLookup(provider, store, Config{})
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}
	ctx := context.Background()

	entries, err := lookup.GetLexicon(ctx, "chek order")
	if err != nil {
		t.Fatalf("first GetLexicon() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if provider.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.Calls())
	}

	// Same key again: fresh hit, no provider call.
	if _, err := lookup.GetLexicon(ctx, "chek order"); err != nil {
		t.Fatalf("second GetLexicon() error = %v", err)
	}
	if provider.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1 after fresh hit", provider.Calls())
	}

	// Case and spacing variants share the slot.
	if _, err := lookup.GetLexicon(ctx, "  Chek   ORDER "); err != nil {
		t.Fatalf("variant GetLexicon() error = %v", err)
	}
	if provider.Calls() != 1 {
		t.Errorf("provider calls = %d, want 1 for normalized variant", provider.Calls())
	}
}

func TestLookupStaleMasksFailure(t *testing.T) {
	provider := &scriptedProvider{entries: testEntries}
	store, clock := newTestStore()
	lookup, err := NewLookup(provider, store, Config{FreshTTL: time.Minute, StaleTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}
	ctx := context.Background()

	if _, err := lookup.GetLexicon(ctx, "chek order"); err != nil {
		t.Fatalf("warm-up GetLexicon() error = %v", err)
	}

	// Fresh window over, provider down: the stale snapshot must answer.
	clock.advance(10 * time.Minute)
	provider.script(nil, &lexicon.ProviderError{Class: lexicon.ErrorClassNetwork, Message: "injected"})

	entries, err := lookup.GetLexicon(ctx, "chek order")
	if err != nil {
		t.Fatalf("GetLexicon() error = %v, want stale masking", err)
	}
	if len(entries) != 1 || entries[0].Task != "CheckOrderStatusTask" {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if provider.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2 (stale serve still attempts refresh)", provider.Calls())
	}
}

func TestLookupFailureWithoutStalePropagates(t *testing.T) {
	provider := &scriptedProvider{err: &lexicon.ProviderError{Class: lexicon.ErrorClassUpstream, Message: "injected"}}
	lookup, err := NewLookup(provider, nil, Config{})
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}

	_, err = lookup.GetLexicon(context.Background(), "chek order")
	if err == nil {
		t.Fatal("expected provider failure to propagate on a cold cache")
	}
	if class := lexicon.ClassOf(err); class != lexicon.ErrorClassUpstream {
		t.Errorf("ClassOf() = %v, want upstream (classification must survive)", class)
	}
}

func TestLookupFailureAfterStaleWindowPropagates(t *testing.T) {
	provider := &scriptedProvider{entries: testEntries}
	store, clock := newTestStore()
	lookup, err := NewLookup(provider, store, Config{FreshTTL: time.Minute, StaleTTL: 10 * time.Minute})
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}
	ctx := context.Background()

	if _, err := lookup.GetLexicon(ctx, "chek order"); err != nil {
		t.Fatalf("warm-up GetLexicon() error = %v", err)
	}

	clock.advance(time.Hour)
	provider.script(nil, &lexicon.ProviderError{Class: lexicon.ErrorClassNetwork, Message: "injected"})

	if _, err := lookup.GetLexicon(ctx, "chek order"); err == nil {
		t.Fatal("expected failure once the stale window is over")
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (expired snapshot must be evicted)", store.Len())
	}
}

func TestLookupRecoveryRefreshesSnapshot(t *testing.T) {
	provider := &scriptedProvider{entries: testEntries}
	store, clock := newTestStore()
	lookup, err := NewLookup(provider, store, Config{FreshTTL: time.Minute, StaleTTL: time.Hour})
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}
	ctx := context.Background()

	if _, err := lookup.GetLexicon(ctx, "chek order"); err != nil {
		t.Fatalf("warm-up GetLexicon() error = %v", err)
	}

	clock.advance(10 * time.Minute)
	replacement := []lexicon.Entry{{Task: "RefundRequestTask", Phrases: []string{"refund"}}}
	provider.script(replacement, nil)

	entries, err := lookup.GetLexicon(ctx, "chek order")
	if err != nil {
		t.Fatalf("GetLexicon() error = %v", err)
	}
	if entries[0].Task != "RefundRequestTask" {
		t.Errorf("Task = %q, want the refreshed snapshot", entries[0].Task)
	}

	// The refresh restarted the fresh window.
	if _, ok := store.GetFresh(Key("chek order")); !ok {
		t.Error("expected a fresh snapshot after recovery")
	}
}

func TestLookupCollapsesConcurrentMisses(t *testing.T) {
	provider := &scriptedProvider{entries: testEntries, delay: 50 * time.Millisecond}
	lookup, err := NewLookup(provider, NewStore(), Config{})
	if err != nil {
		t.Fatalf("NewLookup() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := lookup.GetLexicon(context.Background(), "chek order")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent GetLexicon() error = %v", err)
		}
	}
	if calls := provider.Calls(); calls != 1 {
		t.Errorf("provider calls = %d, want 1 (misses must collapse)", calls)
	}
}

func TestNewLookupValidation(t *testing.T) {
	if _, err := NewLookup(nil, nil, Config{}); err == nil {
		t.Error("expected error for nil provider")
	}

	provider := &scriptedProvider{}
	if _, err := NewLookup(provider, nil, Config{FreshTTL: time.Hour, StaleTTL: time.Minute}); err == nil {
		t.Error("expected error for stale TTL shorter than fresh TTL")
	}
}
