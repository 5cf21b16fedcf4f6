package resilience

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// retriesTotal tracks retry attempts by the class that triggered them.
	retriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmatch_lexicon_retries_total",
			Help: "Total lexicon retry attempts by error class",
		},
		[]string{"error_class"},
	)

	// retryBackoffSeconds tracks the jittered delays before retries.
	retryBackoffSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskmatch_lexicon_retry_backoff_seconds",
			Help:    "Backoff delay before lexicon retries",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	// retryExhaustedTotal tracks lookups that failed every attempt.
	retryExhaustedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmatch_lexicon_retry_exhausted_total",
			Help: "Total lexicon lookups that exhausted retry attempts by error class",
		},
		[]string{"error_class"},
	)

	// attemptTimeoutsTotal tracks attempts abandoned at their deadline.
	attemptTimeoutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "taskmatch_lexicon_attempt_timeouts_total",
			Help: "Total lexicon attempts abandoned at the per-attempt deadline",
		},
	)

	// fallbacksTotal tracks lookups that degraded to an empty lexicon.
	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmatch_lexicon_fallbacks_total",
			Help: "Total lexicon lookups that fell back to an empty lexicon by error class",
		},
		[]string{"error_class"},
	)
)
