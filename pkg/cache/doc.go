// Package cache stores assembled player payloads in Redis.
//
// Keys are normalized profile URLs used verbatim, with no prefix. Values are
// the serialized player JSON. Every write is a whole-entry overwrite with a
// fixed expiry; reads return the stored string untouched and never refresh
// the TTL, so expiry alone decides when a player is recomputed.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient)
//
//	payload, err := manager.Get(ctx, "https://steamcommunity.com/id/someplayer")
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// compute, then
//		err = manager.Set(ctx, key, payload, cache.PlayerTTL)
//	}
//
// # Metrics
//
//   - player_cache_hits_total - Cache hits
//   - player_cache_misses_total - Cache misses
//   - player_cache_written_bytes_total - Payload bytes written
//   - player_cache_errors_total{operation} - Cache operation errors
package cache
