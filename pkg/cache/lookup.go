package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// Config holds the cache decorator configuration.
type Config struct {
	// FreshTTL is how long a snapshot is served without consulting the
	// provider.
	FreshTTL time.Duration

	// StaleTTL is how long a snapshot may still mask provider failures,
	// measured from the same instant as FreshTTL. Must not be shorter
	// than FreshTTL.
	StaleTTL time.Duration
}

// DefaultConfig returns the reference cache windows: one minute fresh,
// thirty minutes last-known-good.
func DefaultConfig() Config {
	return Config{
		FreshTTL: 60 * time.Second,
		StaleTTL: 30 * time.Minute,
	}
}

// Lookup is a read-through decorator around a lexicon provider. Fresh
// snapshots are served without touching the provider; misses refresh both
// expiry tiers; provider failures are masked by a stale snapshot while one
// is servable, and propagate unchanged otherwise.
//
// Lookup implements lexicon.Provider, so it stacks under the resilience
// policy and over any concrete provider.
type Lookup struct {
	provider lexicon.Provider
	store    *Store
	config   Config
	flights  singleflight.Group
	logger   zerolog.Logger
}

// NewLookup creates the decorator. Zero config fields take defaults; a
// stale TTL shorter than the fresh TTL is rejected.
func NewLookup(provider lexicon.Provider, store *Store, cfg Config) (*Lookup, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if store == nil {
		store = NewStore()
	}
	defaults := DefaultConfig()
	if cfg.FreshTTL == 0 {
		cfg.FreshTTL = defaults.FreshTTL
	}
	if cfg.StaleTTL == 0 {
		cfg.StaleTTL = defaults.StaleTTL
	}
	if cfg.FreshTTL < 0 || cfg.StaleTTL < cfg.FreshTTL {
		return nil, fmt.Errorf("invalid cache TTLs: fresh %v, stale %v", cfg.FreshTTL, cfg.StaleTTL)
	}
	return &Lookup{
		provider: provider,
		store:    store,
		config:   cfg,
		logger:   log.With().Str("component", "lexicon-cache").Logger(),
	}, nil
}

// GetLexicon implements lexicon.Provider.
func (l *Lookup) GetLexicon(ctx context.Context, utterance string) ([]lexicon.Entry, error) {
	key := KeyFor(utterance)

	if entry, ok := l.store.GetFresh(key); ok {
		cacheHits.WithLabelValues(tierFresh).Inc()
		l.logger.Debug().Str("key", string(key)).Msg("Cache hit")
		return entry.Entries, nil
	}
	cacheMisses.Inc()

	// Concurrent misses on one key collapse into a single provider call.
	// DoChan rather than Do so a caller whose context ends can leave
	// while the flight completes for the others.
	ch := l.flights.DoChan(string(key), func() (interface{}, error) {
		entries, err := l.refresh(ctx, key, utterance)
		if err != nil {
			return nil, err
		}
		return entries, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]lexicon.Entry), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// refresh asks the wrapped provider and installs the result under both
// expiry tiers. On failure a still-servable stale snapshot masks the
// error; with none left the classified failure goes to the caller.
//
// The flight runs under the initiating caller's context. If that caller's
// deadline fires mid-flight, joined callers see the same classified
// timeout and their retry layer takes over.
func (l *Lookup) refresh(ctx context.Context, key Key, utterance string) ([]lexicon.Entry, error) {
	entries, err := l.provider.GetLexicon(ctx, utterance)
	if err == nil {
		l.store.Set(key, entries, l.config.FreshTTL, l.config.StaleTTL)
		l.logger.Debug().
			Str("key", string(key)).
			Int("entries", len(entries)).
			Dur("fresh_ttl", l.config.FreshTTL).
			Msg("Cache refreshed")
		return entries, nil
	}

	if entry, ok := l.store.GetServable(key); ok {
		cacheHits.WithLabelValues(tierStale).Inc()
		l.logger.Warn().
			Err(err).
			Str("error_class", string(lexicon.ClassOf(err))).
			Dur("age", entry.Age(l.store.now())).
			Msg("Provider failed, serving stale lexicon")
		return entry.Entries, nil
	}
	return nil, err
}
