package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Location is the latest driver position for a pickup
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LocationCache stores live driver locations keyed by pickup
type LocationCache interface {
	Set(ctx context.Context, pickupID uint, loc Location) error
	// Get returns ok=false when nothing is cached
	Get(ctx context.Context, pickupID uint) (*Location, bool, error)
	Delete(ctx context.Context, pickupID uint) error
	Close() error
}

// redisLocationCache implements LocationCache on Redis
type redisLocationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisLocationCache connects to Redis and verifies the connection
func NewRedisLocationCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (LocationCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &redisLocationCache{rdb: rdb, ttl: ttl}, nil
}

func locationKey(pickupID uint) string {
	return fmt.Sprintf("pickup:%d:location", pickupID)
}

func (c *redisLocationCache) Set(ctx context.Context, pickupID uint, loc Location) error {
	b, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, locationKey(pickupID), b, c.ttl).Err()
}

func (c *redisLocationCache) Get(ctx context.Context, pickupID uint) (*Location, bool, error) {
	val, err := c.rdb.Get(ctx, locationKey(pickupID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var loc Location
	if err := json.Unmarshal([]byte(val), &loc); err != nil {
		return nil, false, err
	}
	return &loc, true, nil
}

func (c *redisLocationCache) Delete(ctx context.Context, pickupID uint) error {
	return c.rdb.Del(ctx, locationKey(pickupID)).Err()
}

func (c *redisLocationCache) Close() error {
	return c.rdb.Close()
}

// nopLocationCache is used when Redis is not configured; the database stays the only source
type nopLocationCache struct{}

// NewNopLocationCache returns a cache that stores nothing
func NewNopLocationCache() LocationCache {
	return nopLocationCache{}
}

func (nopLocationCache) Set(context.Context, uint, Location) error { return nil }

func (nopLocationCache) Get(context.Context, uint) (*Location, bool, error) { return nil, false, nil }

func (nopLocationCache) Delete(context.Context, uint) error { return nil }

func (nopLocationCache) Close() error { return nil }
