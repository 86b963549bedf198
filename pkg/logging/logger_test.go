package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level to be Info, got %s", cfg.Level)
	}
	if cfg.Pretty {
		t.Error("Expected default pretty to be false")
	}
	if cfg.Output == nil {
		t.Error("Expected default output to be set")
	}
}

func TestSetup_WritesAtConfiguredLevel(t *testing.T) {
	tests := []struct {
		name  string
		level LogLevel
		emit  func(l zerolog.Logger)
	}{
		{"debug", LevelDebug, func(l zerolog.Logger) { l.Debug().Msg("lookup detail") }},
		{"info", LevelInfo, func(l zerolog.Logger) { l.Info().Msg("lookup detail") }},
		{"warn", LevelWarn, func(l zerolog.Logger) { l.Warn().Msg("lookup detail") }},
		{"error", LevelError, func(l zerolog.Logger) { l.Error().Msg("lookup detail") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := Setup(Config{Level: tt.level, Output: buf})

			tt.emit(logger)

			if !strings.Contains(buf.String(), "lookup detail") {
				t.Errorf("Expected output to contain message, got %q", buf.String())
			}
		})
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
		{"WARNING", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.input), func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewLogger_AddsComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelInfo, Output: buf})

	logger := NewLogger(ComponentPlayer)
	logger.Info().Msg("player resolved")

	output := buf.String()
	if !strings.Contains(output, ComponentPlayer) {
		t.Errorf("Expected output to contain component, got %q", output)
	}
	if !strings.Contains(output, "player resolved") {
		t.Errorf("Expected output to contain message, got %q", output)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelWarn, Output: buf})

	logger := NewLogger("test")
	logger.Debug().Msg("debug message")
	logger.Info().Msg("info message")
	logger.Warn().Msg("warn message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("Messages below warn should be filtered, got %q", output)
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Warn message should be included at Warn level")
	}
}

func TestFromContext(t *testing.T) {
	Setup(Config{Level: LevelDebug, Output: &bytes.Buffer{}})

	fallbackBuf := &bytes.Buffer{}
	fallback := zerolog.New(fallbackBuf)

	t.Run("no logger in context", func(t *testing.T) {
		logger := FromContext(context.Background(), fallback)
		logger.Info().Msg("from fallback")
		if !strings.Contains(fallbackBuf.String(), "from fallback") {
			t.Errorf("Expected fallback logger to be used, got %q", fallbackBuf.String())
		}
	})

	t.Run("request logger in context", func(t *testing.T) {
		reqBuf := &bytes.Buffer{}
		reqLogger := zerolog.New(reqBuf).With().Str("request_id", "req-1").Logger()
		ctx := reqLogger.WithContext(context.Background())

		logger := FromContext(ctx, fallback)
		logger.Info().Msg("from request")
		if !strings.Contains(reqBuf.String(), "req-1") {
			t.Errorf("Expected request logger to be used, got %q", reqBuf.String())
		}
	})
}
