package lexicon

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"
)

// FailureFunc decides per call whether the simulated provider fails.
// Returning nil lets the call proceed; returning an error aborts it. The
// function must be safe for concurrent use.
type FailureFunc func() error

// NoFailures returns a strategy that never fails.
func NoFailures() FailureFunc {
	return func() error { return nil }
}

// FailureRate fails a fraction p of calls with a transient upstream error.
// p <= 0 never fails, p >= 1 always fails.
func FailureRate(p float64) FailureFunc {
	return func() error {
		// #nosec G404 -- failure injection does not need crypto randomness.
		if p > 0 && rand.Float64() < p {
			return &ProviderError{Class: ErrorClassUpstream, Message: "simulated upstream outage"}
		}
		return nil
	}
}

// FailN fails the first n calls with the given class, then succeeds
// forever. Deterministic, so retry behavior can be asserted exactly.
func FailN(n int, class ErrorClass) FailureFunc {
	var calls atomic.Int64
	return func() error {
		call := calls.Add(1)
		if call <= int64(n) {
			return &ProviderError{Class: class, Message: fmt.Sprintf("simulated failure %d of %d", call, n)}
		}
		return nil
	}
}

// SimulatedConfig configures the simulated provider.
type SimulatedConfig struct {
	// Entries is the phrase table served on success. Defaults to
	// DefaultEntries when empty.
	Entries []Entry

	// Failures injects failures. Defaults to NoFailures.
	Failures FailureFunc

	// Latency delays every call before it resolves, honoring context
	// cancellation. Zero disables the delay.
	Latency time.Duration
}

// Simulated is an in-process lexicon provider for development and tests.
// It serves a fixed phrase table and misbehaves on demand through its
// failure strategy, standing in for an unreliable remote service.
type Simulated struct {
	entries  []Entry
	failures FailureFunc
	latency  time.Duration
}

// NewSimulated creates a simulated provider. Caller-supplied entries are
// normalized once here.
func NewSimulated(cfg SimulatedConfig) *Simulated {
	entries := cfg.Entries
	if len(entries) == 0 {
		entries = DefaultEntries()
	}
	failures := cfg.Failures
	if failures == nil {
		failures = NoFailures()
	}
	return &Simulated{
		entries:  NormalizeEntries(entries),
		failures: failures,
		latency:  cfg.Latency,
	}
}

// GetLexicon implements Provider. The utterance is ignored: the simulated
// service serves one lexicon for everything.
func (s *Simulated) GetLexicon(ctx context.Context, _ string) ([]Entry, error) {
	if s.latency > 0 {
		select {
		case <-ctx.Done():
			return nil, &ProviderError{Class: ErrorClassTimeout, Message: "simulated latency interrupted", Err: ctx.Err()}
		case <-time.After(s.latency):
		}
	}
	if err := s.failures(); err != nil {
		return nil, err
	}
	return s.entries, nil
}

// DefaultEntries returns the built-in external lexicon: a broader phrasing
// of the same task domain the internal rules cover, including the typo
// variants a curated remote lexicon would carry.
func DefaultEntries() []Entry {
	return []Entry{
		{Task: "ResetPasswordTask", Phrases: []string{
			"forgot my password", "reset my password", "cant log in", "cannot log in", "locked out",
		}},
		{Task: "UnlockAccountTask", Phrases: []string{
			"unlock my account", "account is locked", "account blocked",
		}},
		{Task: "CheckOrderStatusTask", Phrases: []string{
			"check order", "chek order", "order status", "where is my order", "track my order", "track my package",
		}},
		{Task: "CancelOrderTask", Phrases: []string{
			"cancel my order", "cancel order", "stop my order",
		}},
		{Task: "RefundRequestTask", Phrases: []string{
			"refund", "money back", "return my item",
		}},
		{Task: "UpdateAddressTask", Phrases: []string{
			"change my address", "update my address", "wrong address",
		}},
		{Task: "BillingInquiryTask", Phrases: []string{
			"billing question", "charged twice", "copy of my invoice",
		}},
		{Task: "EscalateToAgentTask", Phrases: []string{
			"talk to an agent", "speak to a human", "real person",
		}},
	}
}
