// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, refresh)
//   - Retry scheduling (attempt, delay, error class)
//   - Empty or short-circuited utterances
//
// Info: Normal operation events
//   - Match results (internal, external, none)
//   - Recovery after retries
//   - Warmup progress
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Stale lexicon served after a provider failure
//   - Retry attempts exhausted
//   - Fallback to the empty lexicon
//   - Warmup lookups skipped
//
// Error: Error conditions requiring attention
//   - Match requests that failed outright
//   - Provider misconfiguration
//   - Response encoding failures
//
// Context Fields:
//   - component: emitting component (matcher, lexicon-cache, lexicon-policy, ...)
//   - task: matched task identifier
//   - matched_key / matched_phrase: phrase that won the scan
//   - error_class: failure classification (network, timeout, upstream, client)
//   - attempt / delay: retry progress
//   - key: normalized cache key
//   - age: stale snapshot age when masking a failure
