package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/carpool/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "carpool:rides:all"

type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRideListCache stores the listing as one JSON value with a TTL.
type RedisRideListCache struct {
	client kv
	key    string
	ttl    time.Duration
}

func NewRedisRideListCache(client *redis.Client, key string, ttl time.Duration) *RedisRideListCache {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRideListCache{client: client, key: key, ttl: ttl}
}

func (c *RedisRideListCache) Get(ctx context.Context) ([]models.Ride, bool, error) {
	b, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var rides []models.Ride
	if err := json.Unmarshal(b, &rides); err != nil {
		return nil, false, fmt.Errorf("decode cached rides: %w", err)
	}
	return rides, true, nil
}

func (c *RedisRideListCache) Set(ctx context.Context, rides []models.Ride) error {
	b, err := json.Marshal(rides)
	if err != nil {
		return fmt.Errorf("encode rides: %w", err)
	}
	if err := c.client.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *RedisRideListCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
