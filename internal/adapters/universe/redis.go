package universe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"go.trai.ch/policy/internal/core/ports"
)

// DefaultRedisTTL applies when the source does not set a TTL.
const DefaultRedisTTL = time.Hour

// RedisFetcher caches another fetcher's documents in Redis.
// Redis failures fall back to the wrapped fetcher.
type RedisFetcher struct {
	next   Fetcher
	client redis.UniversalClient
	ttl    time.Duration
	logger ports.Logger
}

// NewRedisFetcher wraps next with a Redis cache.
func NewRedisFetcher(next Fetcher, client redis.UniversalClient, ttl time.Duration, logger ports.Logger) *RedisFetcher {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisFetcher{next: next, client: client, ttl: ttl, logger: logger}
}

// CacheKey returns the Redis key for a document key.
func CacheKey(key string) string {
	return fmt.Sprintf("policy:universe:%016x", xxhash.Sum64String(key))
}

// Fetch returns the cached document or fetches and stores it.
func (f *RedisFetcher) Fetch(ctx context.Context) ([]byte, error) {
	key := CacheKey(f.next.Key())

	data, err := f.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		return data, nil
	case !errors.Is(err, redis.Nil):
		f.warn(fmt.Sprintf("universe cache unavailable: %v", err))
	}

	data, err = f.next.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := f.client.Set(ctx, key, data, f.ttl).Err(); err != nil {
		f.warn(fmt.Sprintf("failed to cache universe: %v", err))
	}
	return data, nil
}

// Key returns the wrapped fetcher's key.
func (f *RedisFetcher) Key() string {
	return f.next.Key()
}

func (f *RedisFetcher) warn(msg string) {
	if f.logger != nil {
		f.logger.Warn(msg)
	}
}
