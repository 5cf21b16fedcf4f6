// Package cache provides read-through caching of lexicon lookups with
// fresh and stale expiry tiers.
//
// Every snapshot carries two horizons taken from one clock reading:
//
//   - fresh: served directly, the provider is not consulted
//   - stale: served only to mask a provider failure (last known good)
//
// Keys are normalized utterances, so lookups are symmetric with matching.
// Storage is process-local; a restart starts cold. Expired snapshots are
// evicted lazily on lookup, and concurrent misses on one key collapse
// into a single provider call.
//
// # Basic Usage
//
//	provider := lexicon.NewSimulated(lexicon.SimulatedConfig{})
//
//	lookup, err := cache.NewLookup(provider, cache.NewStore(), cache.Config{
//		FreshTTL: 60 * time.Second,
//		StaleTTL: 30 * time.Minute,
//	})
//	if err != nil {
//		return err
//	}
//
//	// Lookup is itself a lexicon.Provider.
//	entries, err := lookup.GetLexicon(ctx, "pls chek order asap")
//
// # Metrics
//
// The package exports Prometheus metrics:
//
//   - taskmatch_lexicon_cache_hits_total{tier} - hits by tier (fresh, stale)
//   - taskmatch_lexicon_cache_misses_total - lookups past the fresh tier
//   - taskmatch_lexicon_cache_evictions_total - snapshots dropped after the stale window
//   - taskmatch_lexicon_cache_entries - current cached keys
package cache
