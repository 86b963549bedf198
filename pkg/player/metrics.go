package player

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	outcomeHit                 = "hit"
	outcomeComputed            = "computed"
	outcomeInvalidURL          = "invalid_url"
	outcomeUnresolved          = "unresolved"
	outcomeCacheUnavailable    = "cache_unavailable"
	outcomeSerializationFailed = "serialization_failed"
)

var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "player_lookups_total",
		Help: "Total player lookups by outcome",
	}, []string{"outcome"})

	lookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "player_lookup_duration_seconds",
		Help:    "Player lookup duration in seconds by outcome",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"outcome"})

	enrichmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "player_enrichments_total",
		Help: "Total enrichment attempts by enricher and result",
	}, []string{"enricher", "result"}) // result: "applied", "absent", "failed"

	cacheDegradedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "player_cache_degraded_total",
		Help: "Lookups that continued without the cache",
	}, []string{"operation"}) // "get", "set"
)
