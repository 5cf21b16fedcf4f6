// Package match implements the two-tier utterance matcher: an ordered
// internal phrase table scanned without I/O, then the external lexicon
// behind whatever cache and resilience decorators the caller stacked.
package match

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
	"github.com/DafnaShemesh/taskmatch/pkg/normalize"
)

// rule is a Rule with its phrase folded once at construction.
type rule struct {
	phrase string
	folded string
	task   lexicon.TaskID
}

// Config holds the matcher configuration.
type Config struct {
	// Rules is the ordered internal table. Defaults to DefaultRules.
	Rules []Rule

	// Lexicon is the external tier, typically a resilience policy over a
	// cache over a concrete provider.
	Lexicon lexicon.Provider
}

// Matcher resolves utterances to tasks. It holds no per-call state; all
// cross-call state lives behind the lexicon provider chain, so one
// matcher serves concurrent requests.
type Matcher struct {
	rules   []rule
	lexicon lexicon.Provider
	logger  zerolog.Logger
}

// New creates a matcher. Rule phrases are normalized here, once; a rule
// whose phrase folds to nothing is dropped, because an empty needle is
// contained in every utterance.
func New(cfg Config) (*Matcher, error) {
	if cfg.Lexicon == nil {
		return nil, fmt.Errorf("lexicon provider is required")
	}
	source := cfg.Rules
	if len(source) == 0 {
		source = DefaultRules()
	}
	rules := make([]rule, 0, len(source))
	for _, r := range source {
		folded := normalize.Fold(r.Phrase)
		if folded == "" || r.Task == "" {
			continue
		}
		rules = append(rules, rule{phrase: r.Phrase, folded: folded, task: r.Task})
	}
	return &Matcher{
		rules:   rules,
		lexicon: cfg.Lexicon,
		logger:  log.With().Str("component", "matcher").Logger(),
	}, nil
}

// Match resolves an utterance to a task. Matching is case, diacritic, and
// spacing insensitive; punctuation needs no handling because containment
// checks the phrase, not the words around it. Every outcome is a TaskID:
// lexicon.NoTaskFound reports that nothing matched and is not an error.
//
// The error return is non-nil only when the external tier fails without a
// fallback guard, which the reference composition never allows.
func (m *Matcher) Match(ctx context.Context, utterance string) (lexicon.TaskID, error) {
	start := time.Now()
	defer func() {
		matchDuration.Observe(time.Since(start).Seconds())
	}()

	folded := normalize.Fold(utterance)
	if folded == "" {
		matchesTotal.WithLabelValues(outcomeNone).Inc()
		m.logger.Debug().Msg("Empty utterance, no match")
		return lexicon.NoTaskFound, nil
	}

	// Internal tier: ordered scan, first containment wins.
	for _, r := range m.rules {
		if strings.Contains(folded, r.folded) {
			matchesTotal.WithLabelValues(outcomeInternal).Inc()
			m.logger.Info().
				Str("task", string(r.task)).
				Str("matched_key", r.phrase).
				Msg("Internal match found")
			return r.task, nil
		}
	}

	// External tier. The chain receives the raw utterance; providers and
	// the cache key normalize on their own.
	entries, err := m.lexicon.GetLexicon(ctx, utterance)
	if err != nil {
		return lexicon.NoTaskFound, fmt.Errorf("external lexicon: %w", err)
	}

	for _, entry := range entries {
		for _, phrase := range entry.Phrases {
			// Fold again rather than trust the provider contract; a
			// well-behaved provider makes this a cheap no-op check.
			needle := normalize.Fold(phrase)
			if needle == "" {
				continue
			}
			if strings.Contains(folded, needle) {
				matchesTotal.WithLabelValues(outcomeExternal).Inc()
				m.logger.Info().
					Str("task", string(entry.Task)).
					Str("matched_phrase", phrase).
					Msg("External match found")
				return entry.Task, nil
			}
		}
	}

	matchesTotal.WithLabelValues(outcomeNone).Inc()
	m.logger.Info().Int("utterance_len", len(utterance)).Msg("No match found")
	return lexicon.NoTaskFound, nil
}
