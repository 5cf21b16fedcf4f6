package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load builds the configuration in precedence order: defaults, then an
// optional taskmatch.yaml (working directory or /etc/taskmatch), then
// TASKMATCH_* environment variables. The result is validated before use.
//
// Environment keys follow the config tree with underscores, e.g.
// TASKMATCH_PROVIDER_KIND=redis or TASKMATCH_CACHE_FRESH_TTL=90s.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("taskmatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/taskmatch")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No file is fine; defaults and environment carry the day.
	}

	v.SetEnvPrefix("TASKMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults mirrors the reference deployment: simulated provider with a
// 30% failure rate, one-minute fresh window over a thirty-minute stale
// window, and a 1s/3-attempt lookup guard.
//
// Every key needs a default so AutomaticEnv can see its env override
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_pretty", false)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("provider.kind", "simulated")
	v.SetDefault("provider.simulated.failure_rate", 0.3)
	v.SetDefault("provider.simulated.latency", "50ms")
	v.SetDefault("provider.http.base_url", "")
	v.SetDefault("provider.redis.addr", "")
	v.SetDefault("provider.redis.password", "")
	v.SetDefault("provider.redis.db", 0)

	v.SetDefault("cache.fresh_ttl", "60s")
	v.SetDefault("cache.stale_ttl", "30m")

	v.SetDefault("resilience.attempt_timeout", "1s")
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.backoff_base", "100ms")
	v.SetDefault("resilience.backoff_cap", "2s")

	v.SetDefault("warmup.enabled", false)
	v.SetDefault("warmup.seeds", []string{})
	v.SetDefault("warmup.max_concurrency", 4)
}

// Validate checks the struct tags plus the cross-field rules tags cannot
// express: the selected provider kind decides which sub-config is
// required.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	switch cfg.Provider.Kind {
	case "http":
		if cfg.Provider.HTTP.BaseURL == "" {
			return fmt.Errorf("provider.http.base_url is required when provider.kind is http")
		}
	case "redis":
		if cfg.Provider.Redis.Addr == "" {
			return fmt.Errorf("provider.redis.addr is required when provider.kind is redis")
		}
	}
	if cfg.Warmup.Enabled && len(cfg.Warmup.Seeds) == 0 {
		return fmt.Errorf("warmup.seeds is required when warmup.enabled is true")
	}
	return nil
}
