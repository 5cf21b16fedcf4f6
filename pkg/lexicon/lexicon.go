package lexicon

import (
	"context"

	"github.com/DafnaShemesh/taskmatch/pkg/normalize"
)

// TaskID names a downstream task a matched utterance resolves to.
type TaskID string

// NoTaskFound is the sentinel task returned when no phrase matches an
// utterance. It is a regular result, not an error: callers and transports
// pass it through like any other TaskID.
const NoTaskFound TaskID = "NoTaskFound"

// Entry pairs a task with its trigger phrases. Phrase order within an
// entry, and entry order within a lexicon, are significant: the matcher
// scans both in sequence and the first containment wins.
type Entry struct {
	Task    TaskID   `json:"task"`
	Phrases []string `json:"phrases"`
}

// Provider supplies the external lexicon for an utterance.
//
// Implementations must be safe for concurrent use and should treat the
// call as idempotent: the same utterance may be requested many times and
// results may be cached and replayed. Returned entries are shared, never
// mutated by callers. Phrases should already be in normalized form;
// consumers fold them again before comparing, so an unnormalized phrase
// degrades matching cost, not correctness.
type Provider interface {
	GetLexicon(ctx context.Context, utterance string) ([]Entry, error)
}

// NormalizeEntries returns a copy of entries with every phrase folded into
// normalized form. Providers that accept caller-supplied phrase tables run
// their input through this once at construction.
func NormalizeEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		phrases := make([]string, 0, len(e.Phrases))
		for _, p := range e.Phrases {
			if folded := normalize.Fold(p); folded != "" {
				phrases = append(phrases, folded)
			}
		}
		out[i] = Entry{Task: e.Task, Phrases: phrases}
	}
	return out
}
