// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"context"
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

// Component names used as the "component" field.
const (
	ComponentServer   = "http-server"
	ComponentPlayer   = "player-service"
	ComponentSteam    = "steam-resolver"
	ComponentFaceit   = "faceit-client"
	ComponentCache    = "cache"
	ComponentTracking = "tracking"
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

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
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

// FromContext returns the request-scoped logger stored in ctx, or fallback
// when the context carries none.
func FromContext(ctx context.Context, fallback zerolog.Logger) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled && l != zerolog.DefaultContextLogger {
		return *l
	}
	return fallback
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Cache operations (hit/miss, key, TTL)
//   - Upstream request detail (url, status)
//   - Enrichment steps that produced no data
//
// Info: Normal operation events
//   - Player lookups (cache hit, computed)
//   - Server startup/shutdown
//
// Warn: Warning conditions that don't prevent operation
//   - Degraded enrichment (provider profile or match history missing)
//   - Cache read/write failures in resilient mode
//   - Tracking events that could not be delivered
//
// Error: Error conditions requiring attention
//   - Failed lookups (invalid URL, unresolved vanity name)
//   - Serialization failures
//   - Configuration errors
//
// Context Fields:
//   - request_id: inbound request ID
//   - url: normalized profile URL (cache key)
//   - steam_id: resolved SteamID64
//   - upstream: upstream API name (steam, faceit, tracking)
//   - status: upstream HTTP status code
//   - error_class: error classification (client, server, rate_limit, network)
//   - cache_hit: boolean indicating cache hit
//   - ttl: cache entry TTL
