package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/boostclient/boostclient-service/internal/domain"
	"github.com/boostclient/boostclient-service/internal/platform/config"
	"github.com/boostclient/boostclient-service/internal/ports"
)

const connectTimeout = 5 * time.Second

// RedisCache is a ports.Cache stored in Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient wraps an existing client. The caller keeps ownership of it.
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns domain.ErrNotFound when key does not exist.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return data, nil
}

// Set stores value. A ttlSeconds of 0 keeps the key until it is deleted.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if err := c.client.Set(ctx, key, value, time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	return nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}

	return nil
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// HealthChecker pings Redis.
func (c *RedisCache) HealthChecker() ports.HealthChecker {
	return ports.CheckerFunc{
		CheckName: "cache",
		Fn: func(ctx context.Context) error {
			return c.client.Ping(ctx).Err()
		},
	}
}

var _ ports.Cache = (*RedisCache)(nil)
