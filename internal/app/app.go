// Package app wires the service together with fx.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/profile-peek/profile-peek/internal/config"
	"github.com/profile-peek/profile-peek/internal/server"
	"github.com/profile-peek/profile-peek/pkg/cache"
	"github.com/profile-peek/profile-peek/pkg/client"
	"github.com/profile-peek/profile-peek/pkg/faceit"
	"github.com/profile-peek/profile-peek/pkg/logging"
	"github.com/profile-peek/profile-peek/pkg/player"
	"github.com/profile-peek/profile-peek/pkg/steam"
	"github.com/profile-peek/profile-peek/pkg/tracking"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module provides every component of the service.
var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(NewLogger),
	fx.Provide(NewRedis),
	fx.Provide(NewCache),
	fx.Provide(NewResolver),
	fx.Provide(NewFaceitClient),
	fx.Provide(NewTrackingSink),
	fx.Provide(NewPlayerService),
	fx.Provide(NewServer),
)

// NewLogger configures the global logger from cfg. Constructors take the
// returned logger as a dependency so component loggers derive from it.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})
}

// NewRedis creates the shared Redis client. An unreachable Redis only logs
// at startup; lookups degrade until it comes back.
func NewRedis(lc fx.Lifecycle, cfg *config.Config, _ zerolog.Logger) (*redis.Client, error) {
	opts, err := cfg.RedisOptions()
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	log := logging.NewLogger(logging.ComponentCache)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				if cfg.CacheStrict {
					return err
				}
				log.Warn().Err(err).Str("addr", opts.Addr).Msg("Redis unreachable at startup")
				return nil
			}
			log.Info().Str("addr", opts.Addr).Msg("Connected to Redis")
			return nil
		},
		OnStop: func(context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}

// NewCache wraps the Redis client.
func NewCache(rdb *redis.Client) *cache.Manager {
	return cache.NewManager(rdb)
}

// NewResolver creates the Steam resolver.
func NewResolver(cfg *config.Config, _ zerolog.Logger) (*steam.Resolver, error) {
	api, err := client.New(upstreamConfig("steam", cfg.SteamAPIBase, cfg))
	if err != nil {
		return nil, err
	}
	return steam.NewResolver(api, cfg.SteamAPIKey, logging.NewLogger(logging.ComponentSteam))
}

// NewFaceitClient creates the FACEIT Data API client.
func NewFaceitClient(cfg *config.Config, _ zerolog.Logger) (*faceit.Client, error) {
	upstream := upstreamConfig("faceit", cfg.FaceitAPIBase, cfg)
	upstream.BearerToken = cfg.FaceitAPIKey

	api, err := client.New(upstream)
	if err != nil {
		return nil, err
	}
	return faceit.NewClient(api, cfg.FaceitMatchWindow, logging.NewLogger(logging.ComponentFaceit))
}

// NewTrackingSink creates the analytics sink and drains it on shutdown.
func NewTrackingSink(lc fx.Lifecycle, cfg *config.Config, _ zerolog.Logger) (*tracking.Sink, error) {
	api, err := client.New(upstreamConfig("tracking", cfg.TrackingEndpoint, cfg))
	if err != nil {
		return nil, err
	}

	sinkCfg := tracking.DefaultConfig()
	sinkCfg.Domain = cfg.TrackingDomain

	sink, err := tracking.NewSink(api, sinkCfg, logging.NewLogger(logging.ComponentTracking))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: sink.Wait,
	})
	return sink, nil
}

// NewPlayerService assembles the lookup pipeline. FACEIT is the first
// enricher.
func NewPlayerService(
	cfg *config.Config,
	store *cache.Manager,
	resolver *steam.Resolver,
	faceitClient *faceit.Client,
	sink *tracking.Sink,
	_ zerolog.Logger,
) *player.Service {
	log := logging.NewLogger(logging.ComponentPlayer)

	return player.NewService(
		store,
		resolver,
		sink,
		player.Config{StrictCache: cfg.CacheStrict},
		log,
		player.NewFaceitEnricher(faceitClient, log),
	)
}

// NewServer creates the HTTP router.
func NewServer(cfg *config.Config, svc *player.Service, store *cache.Manager, _ zerolog.Logger) *server.Server {
	return server.New(svc, store, cfg.StaticDir, logging.NewLogger(logging.ComponentServer))
}

// RunHTTP starts the HTTP server with the application and shuts it down
// gracefully on stop.
func RunHTTP(lc fx.Lifecycle, shutdowner fx.Shutdowner, srv *server.Server, cfg *config.Config, logger zerolog.Logger) {
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info().
					Str("addr", httpServer.Addr).
					Str("env", cfg.Env).
					Str("static_dir", cfg.StaticDir).
					Msg("Server starting")
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error().Err(err).Msg("Server failed")
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("Server shutdown failed")
				return err
			}
			logger.Info().Msg("Server stopped gracefully")
			return nil
		},
	})
}

func upstreamConfig(name, baseURL string, cfg *config.Config) client.Config {
	upstream := client.DefaultConfig(name, baseURL)
	if cfg.UserAgent != "" {
		upstream.UserAgent = cfg.UserAgent
	}
	return upstream
}
