// Command taskmatch-server runs the utterance-to-task match service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DafnaShemesh/taskmatch/internal/api"
	"github.com/DafnaShemesh/taskmatch/internal/config"
	"github.com/DafnaShemesh/taskmatch/pkg/cache"
	"github.com/DafnaShemesh/taskmatch/pkg/lexicon"
	"github.com/DafnaShemesh/taskmatch/pkg/logging"
	"github.com/DafnaShemesh/taskmatch/pkg/match"
	"github.com/DafnaShemesh/taskmatch/pkg/resilience"
	"github.com/DafnaShemesh/taskmatch/pkg/warmup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "taskmatch-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.Server.LogLevel),
		Pretty: cfg.Server.LogPretty,
		Output: os.Stderr,
	})

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	lookup, err := cache.NewLookup(provider, cache.NewStore(), cache.Config{
		FreshTTL: cfg.Cache.FreshTTL,
		StaleTTL: cfg.Cache.StaleTTL,
	})
	if err != nil {
		return err
	}

	guarded, err := resilience.NewPolicy(lookup, resilience.Config{
		AttemptTimeout: cfg.Resilience.AttemptTimeout,
		MaxAttempts:    cfg.Resilience.MaxAttempts,
		BackoffBase:    cfg.Resilience.BackoffBase,
		BackoffCap:     cfg.Resilience.BackoffCap,
	})
	if err != nil {
		return err
	}

	matcher, err := match.New(match.Config{Lexicon: guarded})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Warmup.Enabled {
		warmer := warmup.NewWarmer(guarded, warmup.Config{MaxConcurrency: cfg.Warmup.MaxConcurrency})
		go warmer.Run(ctx, cfg.Warmup.Seeds)
	}

	router := api.NewRouter(api.NewMatchHandler(matcher, logger), logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("provider", cfg.Provider.Kind).
			Msg("Starting match server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// buildProvider constructs the configured external lexicon provider.
func buildProvider(cfg *config.Config) (lexicon.Provider, error) {
	switch cfg.Provider.Kind {
	case "simulated":
		return lexicon.NewSimulated(lexicon.SimulatedConfig{
			Failures: lexicon.FailureRate(cfg.Provider.Simulated.FailureRate),
			Latency:  cfg.Provider.Simulated.Latency,
		}), nil
	case "http":
		return lexicon.NewHTTP(lexicon.HTTPConfig{BaseURL: cfg.Provider.HTTP.BaseURL})
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Provider.Redis.Addr,
			Password: cfg.Provider.Redis.Password,
			DB:       cfg.Provider.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Provider.Redis.Addr, err)
		}
		return lexicon.NewRedisProvider(client), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Provider.Kind)
	}
}
