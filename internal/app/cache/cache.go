// Package cache remembers transcripts by backend and audio content so identical
// audio is not sent to the same backend twice.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"audio-pipeline/internal/app/metrics"
)

// TranscriptCache looks up and stores transcripts. Implementations never fail the caller.
type TranscriptCache interface {
	Get(ctx context.Context, backend, audioHash string) (string, bool)
	Set(ctx context.Context, backend, audioHash, text string)
}

// Key returns the cache key of one backend/content pair.
func Key(backend, audioHash string) string {
	return "transcript:" + backend + ":" + audioHash
}

// Noop is the disabled cache.
type Noop struct{}

func (Noop) Get(context.Context, string, string) (string, bool) { return "", false }
func (Noop) Set(context.Context, string, string, string)         {}

// RedisCache stores transcripts in redis with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache connects to rawURL (redis://...). A zero ttl keeps entries forever.
func NewRedisCache(rawURL string, ttl time.Duration, logger *zap.Logger) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return NewRedisCacheFromClient(redis.NewClient(opts), ttl, logger), nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached transcript. Errors are logged and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, backend, audioHash string) (string, bool) {
	text, err := c.client.Get(ctx, Key(backend, audioHash)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return "", false
	case err != nil:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("transcript cache lookup failed", zap.String("backend", backend), zap.Error(err))
		return "", false
	}
	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return text, true
}

// Set stores text. Errors are logged and dropped.
func (c *RedisCache) Set(ctx context.Context, backend, audioHash, text string) {
	if err := c.client.Set(ctx, Key(backend, audioHash), text, c.ttl).Err(); err != nil {
		c.logger.Warn("transcript cache store failed", zap.String("backend", backend), zap.Error(err))
	}
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
