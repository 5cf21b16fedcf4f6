package match

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes for the matchesTotal metric.
const (
	outcomeInternal = "internal"
	outcomeExternal = "external"
	outcomeNone     = "none"
)

var (
	// matchesTotal tracks resolved utterances by outcome tier.
	matchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskmatch_matches_total",
			Help: "Total match results by outcome (internal, external, none)",
		},
		[]string{"outcome"},
	)

	// matchDuration tracks end-to-end pipeline latency. The long tail
	// covers external lookups riding out retries.
	matchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskmatch_match_duration_seconds",
			Help:    "Utterance match duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)
)
