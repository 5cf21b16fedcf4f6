package resilience

import "errors"

// Sentinel errors surfaced when fallback is disabled. Both wrap the final
// attempt error, so lexicon.ClassOf still classifies the chain.
var (
	// ErrRetryExhausted marks a lookup that failed every attempt.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrInterrupted marks a lookup cancelled during a backoff wait.
	ErrInterrupted = errors.New("lookup interrupted")
)
