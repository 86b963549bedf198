package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks player payloads served from Redis
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "player_cache_hits_total",
			Help: "Total number of player cache hits",
		},
	)

	// CacheMisses tracks lookups that found no payload
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "player_cache_misses_total",
			Help: "Total number of player cache misses",
		},
	)

	// CacheWrittenBytes tracks payload bytes written to Redis
	CacheWrittenBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "player_cache_written_bytes_total",
			Help: "Total number of payload bytes written to the player cache",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "player_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set"
	)
)
