// Package warmup pushes seed utterances through the lexicon provider
// chain at startup so early requests hit a warm cache.
package warmup

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
)

// Config holds warmup configuration.
type Config struct {
	// MaxConcurrency is the number of parallel warmup workers.
	MaxConcurrency int

	// Timeout bounds each seed lookup.
	Timeout time.Duration
}

// DefaultConfig returns conservative warmup settings; warming races real
// traffic, so it should not hog the provider.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        5 * time.Second,
	}
}

// Warmer drives seed utterances through a provider chain. Pointing it at
// the cached chain populates the cache; failures are logged and skipped,
// since a cold key only costs one provider call later.
type Warmer struct {
	provider lexicon.Provider
	config   Config
	logger   zerolog.Logger
}

// NewWarmer creates a warmer over the given chain.
func NewWarmer(provider lexicon.Provider, cfg Config) *Warmer {
	defaults := DefaultConfig()
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaults.MaxConcurrency
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	return &Warmer{
		provider: provider,
		config:   cfg,
		logger:   log.With().Str("component", "warmup").Logger(),
	}
}

// Run pushes every seed through the chain with a worker pool and returns
// the number of seeds that warmed successfully. Run blocks until all
// workers finish or ctx ends.
func (w *Warmer) Run(ctx context.Context, seeds []string) int {
	if len(seeds) == 0 {
		return 0
	}
	start := time.Now()
	w.logger.Info().
		Int("seeds", len(seeds)).
		Int("workers", w.config.MaxConcurrency).
		Msg("Starting lexicon cache warmup")

	queue := make(chan string, len(seeds))
	for _, seed := range seeds {
		queue <- seed
	}
	close(queue)

	var warmed atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < w.config.MaxConcurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for seed := range queue {
				select {
				case <-ctx.Done():
					w.logger.Debug().
						Int("worker_id", workerID).
						Msg("Warmup worker stopping (context cancelled)")
					return
				default:
				}

				seedCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
				_, err := w.provider.GetLexicon(seedCtx, seed)
				cancel()
				if err != nil {
					w.logger.Warn().
						Err(err).
						Int("worker_id", workerID).
						Msg("Warmup lookup failed")
					continue
				}
				warmed.Add(1)
			}
		}(i)
	}
	wg.Wait()

	w.logger.Info().
		Int64("warmed", warmed.Load()).
		Int("seeds", len(seeds)).
		Dur("duration", time.Since(start)).
		Msg("Lexicon cache warmup complete")
	return int(warmed.Load())
}
