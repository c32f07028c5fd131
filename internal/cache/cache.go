// Package cache stores resolved pricing listings in Redis. Entries are grouped
// per location so a commit anywhere in a location drops every listing derived
// from it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Cache is a read-through cache of JSON-encoded values. Entries are scoped to a
// per-location generation: callers read the generation before loading from the
// source and pass it to Get and Set, so a value loaded before an invalidation is
// written under a generation nobody reads anymore.
type Cache interface {
	Generation(ctx context.Context, locationID uuid.UUID) (int64, error)
	Get(ctx context.Context, locationID uuid.UUID, gen int64, key string, dst any) (bool, error)
	Set(ctx context.Context, locationID uuid.UUID, gen int64, key string, v any) error
	InvalidateLocation(ctx context.Context, locationID uuid.UUID) error
}

// RedisCache implements Cache on a Redis client.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache. Keys are namespaced with prefix.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) entryKey(locationID uuid.UUID, gen int64, key string) string {
	return fmt.Sprintf("%s:loc:%s:g%d:%s", c.prefix, locationID, gen, key)
}

func (c *RedisCache) indexKey(locationID uuid.UUID) string {
	return fmt.Sprintf("%s:loc:%s:keys", c.prefix, locationID)
}

func (c *RedisCache) genKey(locationID uuid.UUID) string {
	return fmt.Sprintf("%s:loc:%s:gen", c.prefix, locationID)
}

// Generation returns the location's current generation. A location never
// invalidated is at generation 0.
func (c *RedisCache) Generation(ctx context.Context, locationID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, c.genKey(locationID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading cache generation: %w", err)
	}
	return gen, nil
}

// Get loads a cached value into dst. It reports false on a miss.
func (c *RedisCache) Get(ctx context.Context, locationID uuid.UUID, gen int64, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, c.entryKey(locationID, gen, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("reading cache entry: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decoding cache entry: %w", err)
	}
	return true, nil
}

// Set stores v under gen and records its key in the location's index.
func (c *RedisCache) Set(ctx context.Context, locationID uuid.UUID, gen int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	entry := c.entryKey(locationID, gen, key)
	index := c.indexKey(locationID)
	_, err = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, entry, raw, c.ttl)
		p.SAdd(ctx, index, entry)
		p.Expire(ctx, index, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// InvalidateLocation advances the location's generation and drops the entries
// cached so far.
func (c *RedisCache) InvalidateLocation(ctx context.Context, locationID uuid.UUID) error {
	if err := c.client.Incr(ctx, c.genKey(locationID)).Err(); err != nil {
		return fmt.Errorf("advancing cache generation: %w", err)
	}

	index := c.indexKey(locationID)
	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("reading cache index: %w", err)
	}
	keys = append(keys, index)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting cache entries: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Nop is a Cache that never hits.
type Nop struct{}

func (Nop) Generation(context.Context, uuid.UUID) (int64, error)           { return 0, nil }
func (Nop) Get(context.Context, uuid.UUID, int64, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, uuid.UUID, int64, string, any) error         { return nil }
func (Nop) InvalidateLocation(context.Context, uuid.UUID) error              { return nil }
