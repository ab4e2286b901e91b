// Package cache holds the redis-backed report cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
)

const (
	generationKey = "ledger:report:generation"
	keyPrefix     = "ledger:report"
)

// RedisReportCache keeps serialized reports in redis. Keys embed the current
// generation; bumping it orphans every older entry, which then expires by TTL.
type RedisReportCache struct {
	client *redis.Client
	ttl    time.Duration
	// pendingBump is set when an invalidation failed. Generation retries the
	// INCR and fails until it goes through, so readers skip the cache meanwhile.
	pendingBump atomic.Bool
}

var _ portsrepo.ReportCache = (*RedisReportCache)(nil)

// NewRedisReportCache wraps an existing client.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) *RedisReportCache {
	return &RedisReportCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func reportKey(generation int64, kind, params string) string {
	return fmt.Sprintf("%s:%d:%s:%s", keyPrefix, generation, kind, params)
}

// Generation returns the current generation; a missing key counts as 0.
func (c *RedisReportCache) Generation(ctx context.Context) (int64, error) {
	if c.pendingBump.Load() {
		gen, err := c.client.Incr(ctx, generationKey).Result()
		if err != nil {
			return 0, fmt.Errorf("report generation is stale, retrying bump failed: %w", err)
		}
		c.pendingBump.Store(false)
		return gen, nil
	}

	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read report generation: %w", err)
	}
	return gen, nil
}

func (c *RedisReportCache) Fetch(ctx context.Context, generation int64, kind, params string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, reportKey(generation, kind, params)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached %s report: %w", kind, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached %s report: %w", kind, err)
	}
	return true, nil
}

func (c *RedisReportCache) Store(ctx context.Context, generation int64, kind, params string, report any) error {
	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode %s report: %w", kind, err)
	}
	if err := c.client.Set(ctx, reportKey(generation, kind, params), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s report: %w", kind, err)
	}
	return nil
}

// Invalidate moves every reader to a fresh generation.
func (c *RedisReportCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		c.pendingBump.Store(true)
		return fmt.Errorf("failed to bump report generation: %w", err)
	}
	c.pendingBump.Store(false)
	return nil
}
