// Package config loads process configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	defaultStaticDir     = "frontend/dist"
	productionStaticDir  = "/www/public"
	maxFaceitMatchWindow = 100
)

// required lists the keys without which the process must not start.
var required = []string{"REDIS_URL", "STEAM_API_KEY", "FACEIT_API_KEY", "TRACKING_ENDPOINT"}

// Config is the process configuration.
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogPretty bool
	StaticDir string

	RedisURL    string
	CacheStrict bool

	SteamAPIKey       string
	SteamAPIBase      string
	FaceitAPIKey      string
	FaceitAPIBase     string
	FaceitMatchWindow int
	UserAgent         string

	TrackingEndpoint string
	TrackingDomain   string

	ShutdownTimeout time.Duration
}

// Load reads .env (when present) and the environment. Missing required keys
// or malformed values are reported together as one error.
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	var missing []string
	for _, key := range required {
		if strings.TrimSpace(os.Getenv(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", EnvDevelopment),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		RedisURL: os.Getenv("REDIS_URL"),

		SteamAPIKey:   os.Getenv("STEAM_API_KEY"),
		SteamAPIBase:  getEnv("STEAM_API_BASE", "https://api.steampowered.com"),
		FaceitAPIKey:  os.Getenv("FACEIT_API_KEY"),
		FaceitAPIBase: getEnv("FACEIT_API_BASE", "https://open.faceit.com/data/v4"),
		UserAgent:     os.Getenv("USER_AGENT"),

		TrackingEndpoint: os.Getenv("TRACKING_ENDPOINT"),
		TrackingDomain:   getEnv("TRACKING_DOMAIN", "profile-peek.com"),
	}

	staticDefault := defaultStaticDir
	if cfg.IsProduction() {
		staticDefault = productionStaticDir
	}
	cfg.StaticDir = getEnv("STATIC_DIR", staticDefault)

	var err error
	if cfg.LogPretty, err = getBool("LOG_PRETTY", !cfg.IsProduction()); err != nil {
		return nil, err
	}
	if cfg.CacheStrict, err = getBool("CACHE_STRICT", false); err != nil {
		return nil, err
	}
	if cfg.FaceitMatchWindow, err = getInt("FACEIT_MATCH_WINDOW", 0); err != nil {
		return nil, err
	}
	if cfg.FaceitMatchWindow < 0 || cfg.FaceitMatchWindow > maxFaceitMatchWindow {
		return nil, fmt.Errorf("FACEIT_MATCH_WINDOW must be between 0 and %d, got %d", maxFaceitMatchWindow, cfg.FaceitMatchWindow)
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	if _, err := cfg.RedisOptions(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr is the HTTP listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// RedisOptions parses RedisURL. Both redis:// URLs and bare host:port
// addresses are accepted.
func (c *Config) RedisOptions() (*redis.Options, error) {
	if strings.Contains(c.RedisURL, "://") {
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: c.RedisURL}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
