// Package resilience guards lexicon lookups with per-attempt timeouts,
// retries with decorrelated-jitter backoff, and fallback to an empty
// lexicon. The layers wrap a provider from the inside out: every attempt
// gets its own deadline, transient failures retry, and whatever survives
// both is absorbed by the fallback so a match request always completes.
package resilience

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// Config holds the policy configuration.
type Config struct {
	// AttemptTimeout bounds each individual provider attempt.
	AttemptTimeout time.Duration

	// MaxAttempts is the total number of attempts, the first included.
	MaxAttempts int

	// BackoffBase is the lower bound of every retry delay and the seed
	// of the decorrelated jitter recurrence.
	BackoffBase time.Duration

	// BackoffCap is the upper bound of every retry delay.
	BackoffCap time.Duration

	// DisableFallback propagates the final error instead of swallowing
	// it. Intended for fault-injection tests that assert on failures.
	DisableFallback bool
}

// DefaultConfig returns the reference policy: 1s per attempt, 3 attempts,
// jittered delays between 100ms and 2s.
func DefaultConfig() Config {
	return Config{
		AttemptTimeout: 1 * time.Second,
		MaxAttempts:    3,
		BackoffBase:    100 * time.Millisecond,
		BackoffCap:     2 * time.Second,
	}
}

// Policy wraps a lexicon provider with the timeout, retry, and fallback
// layers. Policy implements lexicon.Provider itself, so it composes with
// the cache decorator and tests can stack it over any provider double.
type Policy struct {
	next   lexicon.Provider
	config Config
	logger zerolog.Logger
}

// NewPolicy creates a policy around next. Zero config fields take
// DefaultConfig values; inconsistent values are rejected.
func NewPolicy(next lexicon.Provider, cfg Config) (*Policy, error) {
	if next == nil {
		return nil, fmt.Errorf("wrapped provider is required")
	}
	defaults := DefaultConfig()
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = defaults.AttemptTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = defaults.BackoffBase
	}
	if cfg.BackoffCap == 0 {
		cfg.BackoffCap = defaults.BackoffCap
	}
	if cfg.AttemptTimeout < 0 || cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("invalid policy: attempt timeout %v, max attempts %d", cfg.AttemptTimeout, cfg.MaxAttempts)
	}
	if cfg.BackoffBase < 0 || cfg.BackoffCap < cfg.BackoffBase {
		return nil, fmt.Errorf("invalid policy backoff: base %v, cap %v", cfg.BackoffBase, cfg.BackoffCap)
	}
	return &Policy{
		next:   next,
		config: cfg,
		logger: log.With().Str("component", "lexicon-policy").Logger(),
	}, nil
}

// GetLexicon implements lexicon.Provider as fallback(retry(timeout(next))).
// With fallback enabled the error return is always nil: a lookup the
// layers cannot save degrades to an empty lexicon and matching continues.
func (p *Policy) GetLexicon(ctx context.Context, utterance string) ([]lexicon.Entry, error) {
	entries, err := p.retry(ctx, utterance)
	if err == nil {
		return entries, nil
	}
	if p.config.DisableFallback {
		return nil, err
	}

	class := lexicon.ClassOf(err)
	fallbacksTotal.WithLabelValues(string(class)).Inc()
	p.logger.Warn().
		Err(err).
		Str("error_class", string(class)).
		Msg("Lexicon fallback engaged, returning empty lexicon")
	return []lexicon.Entry{}, nil
}

// retry runs timeout-bounded attempts until one succeeds, a non-transient
// failure appears, or attempts run out. Delays between attempts follow
// decorrelated jitter: each is drawn from [base, 3*previous] and capped.
func (p *Policy) retry(ctx context.Context, utterance string) ([]lexicon.Entry, error) {
	var lastErr error
	delay := p.config.BackoffBase

	for attempt := 1; attempt <= p.config.MaxAttempts; attempt++ {
		entries, err := p.attempt(ctx, utterance)
		if err == nil {
			if attempt > 1 {
				p.logger.Info().Int("attempt", attempt).Msg("Lexicon lookup succeeded after retry")
			}
			return entries, nil
		}
		lastErr = err

		class := lexicon.ClassOf(err)
		if !lexicon.IsTransient(class) {
			p.logger.Debug().
				Str("error_class", string(class)).
				Err(err).
				Msg("Non-transient lexicon failure, not retrying")
			return nil, err
		}
		if attempt >= p.config.MaxAttempts {
			break
		}

		delay = p.nextDelay(delay)
		retriesTotal.WithLabelValues(string(class)).Inc()
		retryBackoffSeconds.Observe(delay.Seconds())
		p.logger.Debug().
			Int("attempt", attempt).
			Dur("delay", delay).
			Str("error_class", string(class)).
			Err(err).
			Msg("Lexicon attempt failed, retrying after backoff")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
		case <-time.After(delay):
		}
	}

	class := lexicon.ClassOf(lastErr)
	retryExhaustedTotal.WithLabelValues(string(class)).Inc()
	p.logger.Warn().
		Int("max_attempts", p.config.MaxAttempts).
		Str("error_class", string(class)).
		Err(lastErr).
		Msg("Lexicon retry attempts exhausted")
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, p.config.MaxAttempts, lastErr)
}

// attempt runs one provider call bounded by AttemptTimeout. A stuck
// provider cannot hold the attempt hostage: the call keeps running in its
// goroutine, but its result is discarded once the deadline fires and no
// partial result is used.
func (p *Policy) attempt(ctx context.Context, utterance string) ([]lexicon.Entry, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, p.config.AttemptTimeout)
	defer cancel()

	type result struct {
		entries []lexicon.Entry
		err     error
	}
	done := make(chan result, 1)
	go func() {
		entries, err := p.next.GetLexicon(attemptCtx, utterance)
		done <- result{entries: entries, err: err}
	}()

	select {
	case res := <-done:
		return res.entries, res.err
	case <-attemptCtx.Done():
		if attemptCtx.Err() == context.DeadlineExceeded {
			attemptTimeoutsTotal.Inc()
			return nil, &lexicon.ProviderError{
				Class:   lexicon.ErrorClassTimeout,
				Message: fmt.Sprintf("attempt exceeded %v", p.config.AttemptTimeout),
				Err:     attemptCtx.Err(),
			}
		}
		return nil, attemptCtx.Err()
	}
}

// nextDelay draws the next backoff delay: uniform over [base, 3*prev],
// then capped. Decorrelated jitter keeps concurrent clients from retrying
// in lockstep while still growing the delay under sustained failure.
func (p *Policy) nextDelay(prev time.Duration) time.Duration {
	base := p.config.BackoffBase
	upper := 3 * prev
	if upper <= base {
		upper = base + 1
	}
	// #nosec G404 -- timing jitter does not need crypto randomness.
	delay := base + time.Duration(rand.Int63n(int64(upper-base)))
	if delay > p.config.BackoffCap {
		delay = p.config.BackoffCap
	}
	return delay
}
