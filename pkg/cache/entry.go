package cache

import (
	"time"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// Entry is a cached lexicon snapshot with two expiry tiers. FreshUntil
// bounds the fast path: while fresh, the snapshot is served without a
// provider call. StaleUntil bounds the last-known-good window: a stale
// snapshot is served only to mask a provider failure.
//
// StaleUntil is never before FreshUntil; Store.Set enforces it.
type Entry struct {
	// Entries is the cached lexicon.
	Entries []lexicon.Entry

	// CachedAt is when the snapshot was taken.
	CachedAt time.Time

	// FreshUntil ends the serve-without-asking window.
	FreshUntil time.Time

	// StaleUntil ends the serve-on-failure window.
	StaleUntil time.Time
}

// IsFresh reports whether the snapshot may be served without consulting
// the provider.
func (e *Entry) IsFresh(now time.Time) bool {
	return now.Before(e.FreshUntil)
}

// IsServable reports whether the snapshot may still mask a provider
// failure.
func (e *Entry) IsServable(now time.Time) bool {
	return now.Before(e.StaleUntil)
}

// Age returns how long ago the snapshot was taken.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CachedAt)
}
