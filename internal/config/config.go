// Package config loads and validates the match service configuration from
// defaults, an optional taskmatch.yaml, and TASKMATCH_* environment
// variables.
package config

import "time"

// Config holds all service configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Provider   ProviderConfig   `mapstructure:"provider"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Resilience ResilienceConfig `mapstructure:"resilience"`
	Warmup     WarmupConfig     `mapstructure:"warmup"`
}

// ServerConfig holds HTTP server and logging settings.
type ServerConfig struct {
	// Port the HTTP server listens on.
	Port int `mapstructure:"port" validate:"required,gt=0,lt=65536"`

	// LogLevel is the minimum level emitted (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// LogPretty switches from JSON to console output.
	LogPretty bool `mapstructure:"log_pretty"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// ProviderConfig selects and configures the external lexicon provider.
type ProviderConfig struct {
	// Kind picks the provider: simulated, http, or redis.
	Kind string `mapstructure:"kind" validate:"required,oneof=simulated http redis"`

	Simulated SimulatedProviderConfig `mapstructure:"simulated"`
	HTTP      HTTPProviderConfig      `mapstructure:"http"`
	Redis     RedisProviderConfig     `mapstructure:"redis"`
}

// SimulatedProviderConfig tunes the in-process provider.
type SimulatedProviderConfig struct {
	// FailureRate is the fraction of calls that fail (0 to 1).
	FailureRate float64 `mapstructure:"failure_rate" validate:"gte=0,lte=1"`

	// Latency delays every call.
	Latency time.Duration `mapstructure:"latency" validate:"gte=0"`
}

// HTTPProviderConfig points at a remote lexicon service.
type HTTPProviderConfig struct {
	// BaseURL of the lexicon service. Required when kind is http.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// RedisProviderConfig points at a Redis-hosted lexicon.
type RedisProviderConfig struct {
	// Addr of the Redis instance. Required when kind is redis.
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// CacheConfig holds the lexicon cache expiry tiers.
type CacheConfig struct {
	// FreshTTL is the serve-without-asking window.
	FreshTTL time.Duration `mapstructure:"fresh_ttl" validate:"required,gt=0"`

	// StaleTTL is the last-known-good window. Must cover FreshTTL.
	StaleTTL time.Duration `mapstructure:"stale_ttl" validate:"required,gtefield=FreshTTL"`
}

// ResilienceConfig holds the lookup guard settings.
type ResilienceConfig struct {
	// AttemptTimeout bounds each provider attempt.
	AttemptTimeout time.Duration `mapstructure:"attempt_timeout" validate:"required,gt=0"`

	// MaxAttempts is the total attempt count, the first included.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gte=1,lte=10"`

	// BackoffBase seeds the jittered retry delay.
	BackoffBase time.Duration `mapstructure:"backoff_base" validate:"required,gt=0"`

	// BackoffCap limits every retry delay. Must cover BackoffBase.
	BackoffCap time.Duration `mapstructure:"backoff_cap" validate:"required,gtefield=BackoffBase"`
}

// WarmupConfig controls startup cache warming.
type WarmupConfig struct {
	// Enabled switches warmup on.
	Enabled bool `mapstructure:"enabled"`

	// Seeds are the utterances pushed through the chain at startup.
	Seeds []string `mapstructure:"seeds"`

	// MaxConcurrency is the warmup worker count.
	MaxConcurrency int `mapstructure:"max_concurrency" validate:"gte=0"`
}
