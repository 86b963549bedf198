package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/profile-peek/profile-peek/pkg/cache"
	"github.com/profile-peek/profile-peek/pkg/logging"
	"github.com/profile-peek/profile-peek/pkg/steam"
	"github.com/profile-peek/profile-peek/pkg/tracking"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrCacheUnavailable is returned in strict mode when the cache cannot
	// be read.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrSerializationFailed is returned when the assembled player cannot be
	// encoded. Nothing is cached in that case.
	ErrSerializationFailed = errors.New("player serialization failed")
)

// Cache stores serialized players by normalized profile URL.
// Get must return cache.ErrCacheMiss for an absent key.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Resolver maps a normalized profile URL to a SteamID64.
type Resolver interface {
	Resolve(ctx context.Context, p steam.ProfileURL) (string, error)
}

// Notifier receives analytics events. Track must not block.
type Notifier interface {
	Track(name string, props map[string]string)
}

// Config holds service configuration.
type Config struct {
	// StrictCache fails a lookup when the cache cannot be read instead of
	// computing the player without it.
	StrictCache bool

	// TTL of a cached player. Defaults to cache.PlayerTTL.
	TTL time.Duration
}

// Service runs player lookups.
type Service struct {
	cache     Cache
	resolver  Resolver
	notifier  Notifier
	enrichers []Enricher
	config    Config
	logger    zerolog.Logger
}

// marshal is swapped in tests to force an encoding failure.
var marshal = json.Marshal

// NewService creates a lookup service. Enrichers are applied in the order
// given.
func NewService(c Cache, r Resolver, n Notifier, cfg Config, logger zerolog.Logger, enrichers ...Enricher) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = cache.PlayerTTL
	}
	return &Service{
		cache:     c,
		resolver:  r,
		notifier:  n,
		enrichers: enrichers,
		config:    cfg,
		logger:    logger,
	}
}

// Lookup returns the serialized player for rawURL. A cached payload is
// returned verbatim; otherwise the player is resolved, enriched, cached for
// the configured TTL and returned.
func (s *Service) Lookup(ctx context.Context, rawURL string) (string, error) {
	start := time.Now()
	log := logging.FromContext(ctx, s.logger)

	s.notifier.Track(tracking.EventSearchRequest, map[string]string{"url": rawURL})

	key, err := steam.Normalize(rawURL)
	if err != nil {
		s.fail(log, outcomeInvalidURL, start, err)
		return "", err
	}
	log = log.With().Str("url", key.String()).Logger()

	payload, err := s.cache.Get(ctx, key.String())
	switch {
	case err == nil:
		s.notifier.Track(tracking.EventCacheHit, map[string]string{
			"id":  cachedSteamID(payload),
			"url": key.String(),
		})
		observe(outcomeHit, start)
		log.Info().Bool("cache_hit", true).Msg("Player served from cache")
		return payload, nil

	case errors.Is(err, cache.ErrCacheMiss):
		log.Debug().Msg("Player cache miss")

	case s.config.StrictCache:
		err = fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
		s.fail(log, outcomeCacheUnavailable, start, err)
		return "", err

	default:
		cacheDegradedTotal.WithLabelValues("get").Inc()
		log.Warn().Err(err).Msg("Cache read failed, computing without cache")
		s.notifier.Track(tracking.EventError, map[string]string{"msg": fmt.Sprintf("cache read failed for %s: %v", key, err)})
	}

	steamID, err := s.resolver.Resolve(ctx, key)
	if err != nil {
		s.fail(log, outcomeUnresolved, start, err)
		return "", err
	}
	log = log.With().Str("steam_id", steamID).Logger()

	p := New(steamID)
	s.enrich(ctx, log, p)

	raw, err := marshal(p)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrSerializationFailed, err)
		s.fail(log, outcomeSerializationFailed, start, err)
		return "", err
	}
	payload = string(raw)

	if err := s.cache.Set(ctx, key.String(), payload, s.config.TTL); err != nil {
		cacheDegradedTotal.WithLabelValues("set").Inc()
		log.Warn().Err(err).Msg("Cache write failed, serving uncached player")
		s.notifier.Track(tracking.EventError, map[string]string{"msg": fmt.Sprintf("cache write failed for %s: %v", key, err)})
	}

	observe(outcomeComputed, start)
	log.Info().
		Bool("cache_hit", false).
		Bool("enriched", p.FaceitData != nil).
		Dur("duration", time.Since(start)).
		Msg("Player computed")
	return payload, nil
}

// enrich runs every enricher concurrently and applies the results in
// registration order. Failures are logged and reported, never returned.
func (s *Service) enrich(ctx context.Context, log zerolog.Logger, p *Player) {
	results := make([]Enrichment, len(s.enrichers))

	g, gctx := errgroup.WithContext(ctx)
	for i, e := range s.enrichers {
		g.Go(func() error {
			enrichment, err := e.Enrich(gctx, p.SteamID)
			switch {
			case err == nil:
				results[i] = enrichment
				enrichmentsTotal.WithLabelValues(e.Name(), "applied").Inc()
			case errors.Is(err, ErrNoEnrichment):
				enrichmentsTotal.WithLabelValues(e.Name(), "absent").Inc()
				log.Debug().Str("enricher", e.Name()).Msg("No enrichment data")
			default:
				enrichmentsTotal.WithLabelValues(e.Name(), "failed").Inc()
				log.Warn().Err(err).Str("enricher", e.Name()).Msg("Enrichment failed")
				s.notifier.Track(tracking.EventError, map[string]string{
					"msg": fmt.Sprintf("%s enrichment failed for %s: %v", e.Name(), p.SteamID, err),
				})
			}
			// A failed enricher must not cancel its siblings through gctx.
			return nil
		})
	}
	_ = g.Wait() // always nil

	for _, apply := range results {
		if apply != nil {
			apply(p)
		}
	}
}

func (s *Service) fail(log zerolog.Logger, outcome string, start time.Time, err error) {
	observe(outcome, start)
	log.Error().Err(err).Str("outcome", outcome).Msg("Player lookup failed")
	s.notifier.Track(tracking.EventError, map[string]string{"msg": err.Error()})
}

func observe(outcome string, start time.Time) {
	lookupsTotal.WithLabelValues(outcome).Inc()
	lookupDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// cachedSteamID reads steam_id from a cached payload, or "" if it has none.
func cachedSteamID(payload string) string {
	var head struct {
		SteamID string `json:"steam_id"`
	}
	if err := json.Unmarshal([]byte(payload), &head); err != nil {
		return ""
	}
	return head.SteamID
}
