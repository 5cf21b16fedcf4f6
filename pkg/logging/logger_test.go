package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("default level = %s, want info", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("default pretty should be false")
	}
}

func TestSetupWritesToConfiguredOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Output: buf})

	logger.Info().Str("component", "matcher").Msg("Internal match found")

	output := buf.String()
	if !strings.Contains(output, "Internal match found") {
		t.Errorf("expected message in output, got %q", output)
	}
	if !strings.Contains(output, `"component":"matcher"`) {
		t.Errorf("expected structured component field, got %q", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    LogLevel
		expected zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"invalid", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLoggerCarriesComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger("lexicon-cache")
	logger.Info().Msg("Cache refreshed")

	output := buf.String()
	if !strings.Contains(output, "lexicon-cache") {
		t.Errorf("expected component in output, got %q", output)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelWarn, Output: buf})

	logger := NewLogger("lexicon-policy")
	logger.Debug().Msg("Lexicon attempt failed, retrying after backoff")
	logger.Info().Msg("Lexicon lookup succeeded after retry")
	logger.Warn().Msg("Lexicon fallback engaged")
	logger.Error().Msg("Match failed")

	output := buf.String()
	if strings.Contains(output, "retrying after backoff") {
		t.Error("debug message should be filtered at warn level")
	}
	if strings.Contains(output, "succeeded after retry") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(output, "fallback engaged") {
		t.Error("warn message should pass at warn level")
	}
	if !strings.Contains(output, "Match failed") {
		t.Error("error message should pass at warn level")
	}
}
