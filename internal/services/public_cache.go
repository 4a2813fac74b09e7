package services

import (
	"context"
	"log/slog"
	"time"

	"navhub/internal/caching"
)

// DefaultPublicCacheTTL bounds how stale a public read may get if an
// invalidation is lost.
const DefaultPublicCacheTTL = 5 * time.Minute

// publicCache wraps the cache for read-through use. Cache errors are logged
// and the caller falls back to the database. A nil cache disables caching.
type publicCache struct {
	cache caching.CacheService
	ttl   time.Duration
}

func (p publicCache) get(ctx context.Context, key string, dest interface{}) bool {
	if p.cache == nil {
		return false
	}
	hit, err := p.cache.GetJSON(ctx, key, dest)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (p publicCache) set(ctx context.Context, key string, value interface{}) {
	if p.cache == nil {
		return
	}
	if err := p.cache.SetJSON(ctx, key, value, p.ttl); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

func (p publicCache) invalidate(ctx context.Context, keys ...string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}
