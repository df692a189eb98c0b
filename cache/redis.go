package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces every key written by RedisCache.
const DefaultKeyPrefix = "gotcat:"

// scanBatch is the COUNT hint used when clearing prefixed keys.
const scanBatch = 500

// RedisCache is a Redis-backed translation cache. It can be shared by many
// processes serving the same catalogs.
type RedisCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis cache.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int    // TTL in seconds (0 = no expiration)
	KeyPrefix string // Prefix for all keys (default: "gotcat:")
}

// NewRedisCache creates a new Redis cache with the given configuration.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return NewRedisCacheFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisCacheFromClient creates a RedisCache from an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves a value from Redis. Connection failures are reported as
// misses.
func (c *RedisCache) Get(key string) (string, bool) {
	val, found, err := c.Fetch(key)
	if err != nil {
		return "", false
	}
	return val, found
}

// Fetch retrieves a value, separating a missing key from a failed read.
func (c *RedisCache) Fetch(key string) (string, bool, error) {
	ctx := context.Background()
	val, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores a value in Redis.
func (c *RedisCache) Set(key string, value string) error {
	ctx := context.Background()
	return c.client.Set(ctx, c.keyPrefix+key, value, c.ttl).Err()
}

// SetMany writes all values in one round trip: a single MSET when keys never
// expire, otherwise one pipelined SET per key. Keys are written in sorted order.
func (c *RedisCache) SetMany(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	ctx := context.Background()

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if c.ttl == 0 {
		pairs := make([]interface{}, 0, len(keys)*2)
		for _, key := range keys {
			pairs = append(pairs, c.keyPrefix+key, values[key])
		}
		return c.client.MSet(ctx, pairs...).Err()
	}

	pipe := c.client.Pipeline()
	for _, key := range keys {
		pipe.Set(ctx, c.keyPrefix+key, values[key], c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Delete removes a single key.
func (c *RedisCache) Delete(key string) error {
	ctx := context.Background()
	return c.client.Del(ctx, c.keyPrefix+key).Err()
}

// Clear removes every key under the cache prefix using SCAN so the server is
// never blocked by KEYS.
func (c *RedisCache) Clear() error {
	ctx := context.Background()

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scanning %s*: %w", c.keyPrefix, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("deleting keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping tests the Redis connection.
func (c *RedisCache) Ping() error {
	ctx := context.Background()
	return c.client.Ping(ctx).Err()
}

// Verify RedisCache implements Backend and Fetcher
var (
	_ Backend = (*RedisCache)(nil)
	_ Fetcher = (*RedisCache)(nil)
)
