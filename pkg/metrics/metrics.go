// Package metrics exposes the Prometheus registry shared by every package.
// Collectors are defined next to the code they measure (client, cache,
// player, tracking) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer promauto uses.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Upstream Metrics (pkg/client):
//   - upstream_requests_total{upstream, status} (Counter): Requests by upstream and HTTP status
//   - upstream_request_duration_seconds{upstream} (Histogram): Request duration by upstream
//   - upstream_errors_total{upstream, class} (Counter): Errors by class (client, server, rate_limit, network, decode)
//
// Cache Metrics (pkg/cache):
//   - player_cache_hits_total (Counter): Player payloads served from Redis
//   - player_cache_misses_total (Counter): Lookups that found no payload
//   - player_cache_written_bytes_total (Counter): Payload bytes written
//   - player_cache_errors_total{operation} (Counter): Redis errors by operation
//
// Lookup Metrics (pkg/player):
//   - player_lookups_total{outcome} (Counter): Lookups by outcome (hit, computed, invalid_url, unresolved, ...)
//   - player_lookup_duration_seconds{outcome} (Histogram): Lookup duration by outcome
//   - player_enrichments_total{enricher, result} (Counter): Enrichment results (applied, absent, failed)
//   - player_cache_degraded_total{operation} (Counter): Lookups that continued without the cache
//
// Tracking Metrics (pkg/tracking):
//   - tracking_events_total{event, result} (Counter): Analytics events (sent, failed, dropped)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(player_cache_hits_total[5m])) /
//   (sum(rate(player_cache_hits_total[5m])) + sum(rate(player_cache_misses_total[5m])))
//
//   # FACEIT Error Rate
//   sum(rate(upstream_errors_total{upstream="faceit"}[5m]))
//
//   # P95 Lookup Latency on a miss
//   histogram_quantile(0.95, rate(player_lookup_duration_seconds_bucket{outcome="computed"}[5m]))
//
//   # Unresolved vanity names
//   rate(player_lookups_total{outcome="unresolved"}[5m])
