package cache

import "github.com/DafnaShemesh/taskmatch/pkg/normalize"

// Key identifies a cached lexicon snapshot: the normalized form of the
// utterance that requested it. Using the normalized form keeps the key
// deterministic and symmetric with matching, so "Chek ORDER" and
// "chek order" share one slot.
type Key string

// KeyFor derives the cache key for an utterance.
func KeyFor(utterance string) Key {
	return Key(normalize.Fold(utterance))
}
