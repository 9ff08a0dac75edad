// Package redis caches computed risk scores in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/example/gmao/internal/ports/secondary"
)

// KeyPrefix namespaces risk entries.
const KeyPrefix = "gmao:risk:"

// KV is the subset of Redis the cache needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisKV adapts a go-redis client to KV. A missing key is ErrCacheMiss.
type RedisKV struct {
	c *goredis.Client
}

// NewRedisKV wraps a client.
func NewRedisKV(c *goredis.Client) *RedisKV { return &RedisKV{c: c} }

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := r.c.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", secondary.ErrCacheMiss
		}
		return "", err
	}
	return val, nil
}

func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.c.Set(ctx, key, value, ttl).Err()
}

func (r *RedisKV) Del(ctx context.Context, key string) error {
	return r.c.Del(ctx, key).Err()
}

// Connect opens a client and checks the server responds.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// RiskCache implements secondary.RiskCache as JSON values with a TTL.
type RiskCache struct {
	kv KV
}

// NewRiskCache creates a risk cache backed by kv.
func NewRiskCache(kv KV) *RiskCache {
	return &RiskCache{kv: kv}
}

func key(elevatorID string) string {
	return KeyPrefix + elevatorID
}

// Get returns the cached score or secondary.ErrCacheMiss.
func (c *RiskCache) Get(ctx context.Context, elevatorID string) (*secondary.RiskRecord, error) {
	raw, err := c.kv.Get(ctx, key(elevatorID))
	if err != nil {
		if errors.Is(err, secondary.ErrCacheMiss) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read risk cache: %w", err)
	}

	var record secondary.RiskRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		// A corrupt entry is as good as none.
		return nil, fmt.Errorf("corrupt risk entry for %s: %w", elevatorID, secondary.ErrCacheMiss)
	}
	return &record, nil
}

// Set stores a score. A zero ttl keeps it until invalidated.
func (c *RiskCache) Set(ctx context.Context, record *secondary.RiskRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode risk entry: %w", err)
	}
	if err := c.kv.Set(ctx, key(record.ElevatorID), string(data), ttl); err != nil {
		return fmt.Errorf("failed to write risk cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached score of an elevator.
func (c *RiskCache) Invalidate(ctx context.Context, elevatorID string) error {
	if err := c.kv.Del(ctx, key(elevatorID)); err != nil {
		return fmt.Errorf("failed to invalidate risk cache: %w", err)
	}
	return nil
}

// Ensure RiskCache implements the interface.
var _ secondary.RiskCache = (*RiskCache)(nil)
