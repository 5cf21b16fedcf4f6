package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hit tiers for the cacheHits metric.
const (
	tierFresh = "fresh"
	tierStale = "stale"
)

var (
	// cacheHits tracks served snapshots by tier. Fresh hits skip the
	// provider; stale hits masked a provider failure.
	cacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmatch_lexicon_cache_hits_total",
			Help: "Total lexicon cache hits by tier (fresh, stale)",
		},
		[]string{"tier"},
	)

	// cacheMisses tracks lookups that left the fast path, whether they
	// triggered a provider call or joined one in flight.
	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskmatch_lexicon_cache_misses_total",
			Help: "Total lexicon cache lookups that missed the fresh tier",
		},
	)

	// cacheEvictions tracks snapshots dropped after their stale window.
	cacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskmatch_lexicon_cache_evictions_total",
			Help: "Total lexicon snapshots evicted after the stale window",
		},
	)

	// cacheEntries tracks the current number of cached keys.
	cacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskmatch_lexicon_cache_entries",
			Help: "Current number of cached lexicon keys",
		},
	)
)
