// Package metrics provides the centralized Prometheus registry and scrape
// handler for the match service. Metrics are defined in their respective
// packages (match, cache, resilience) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the default Prometheus registerer used by the service.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Handler returns the scrape endpoint handler over the default gatherer.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Match Metrics (pkg/match):
//   - taskmatch_matches_total{outcome} (Counter): Match results by outcome (internal, external, none)
//   - taskmatch_match_duration_seconds (Histogram): End-to-end match pipeline latency
//
// Cache Metrics (pkg/cache):
//   - taskmatch_lexicon_cache_hits_total{tier} (Counter): Cache hits by tier (fresh, stale)
//   - taskmatch_lexicon_cache_misses_total (Counter): Lookups past the fresh tier
//   - taskmatch_lexicon_cache_evictions_total (Counter): Snapshots dropped after the stale window
//   - taskmatch_lexicon_cache_entries (Gauge): Current cached lexicon keys
//
// Resilience Metrics (pkg/resilience):
//   - taskmatch_lexicon_retries_total{error_class} (Counter): Retry attempts by error class
//   - taskmatch_lexicon_retry_backoff_seconds (Histogram): Jittered backoff delays
//   - taskmatch_lexicon_retry_exhausted_total{error_class} (Counter): Lookups that spent every attempt
//   - taskmatch_lexicon_attempt_timeouts_total (Counter): Attempts abandoned at the per-attempt deadline
//   - taskmatch_lexicon_fallbacks_total{error_class} (Counter): Lookups degraded to the empty lexicon
//
// Example Prometheus Queries:
//
//   # Share of answers the internal table settles
//   sum(rate(taskmatch_matches_total{outcome="internal"}[5m])) /
//   sum(rate(taskmatch_matches_total[5m]))
//
//   # Cache Hit Rate (fresh tier)
//   sum(rate(taskmatch_lexicon_cache_hits_total{tier="fresh"}[5m])) /
//   (sum(rate(taskmatch_lexicon_cache_hits_total{tier="fresh"}[5m])) + sum(rate(taskmatch_lexicon_cache_misses_total[5m])))
//
//   # Stale serves, the provider-health canary
//   rate(taskmatch_lexicon_cache_hits_total{tier="stale"}[5m])
//
//   # Fallback Rate by error class
//   rate(taskmatch_lexicon_fallbacks_total[5m])
//
//   # P95 Match Latency
//   histogram_quantile(0.95, rate(taskmatch_match_duration_seconds_bucket[5m]))
