package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

const (
	DefaultRouteTTL = 7 * 24 * time.Hour
	redisKeyPrefix  = "route:"
)

// RedisRouteCache stores routes as JSON values with a TTL.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRouteCache wraps rdb. A non-positive ttl uses DefaultRouteTTL.
func NewRedisRouteCache(rdb *redis.Client, ttl time.Duration) *RedisRouteCache {
	if ttl <= 0 {
		ttl = DefaultRouteTTL
	}
	return &RedisRouteCache{rdb: rdb, ttl: ttl}
}

// NewRedisRouteCacheFromURL connects to a redis:// URL.
func NewRedisRouteCacheFromURL(url string, ttl time.Duration) (*RedisRouteCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis route cache: parse url: %w", err)
	}
	return NewRedisRouteCache(redis.NewClient(opt), ttl), nil
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	data, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: redis get: %w", err)
	}

	var r ports.RouteResult
	if err := json.Unmarshal(data, &r); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode: %w", err)
	}
	return r, true, nil
}

func (c *RedisRouteCache) Set(ctx context.Context, key string, r ports.RouteResult) (err error) {
	defer obs.Time(ctx, "route.cache.redis.Set")(&err)

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("insert route cache: encode: %w", err)
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("insert route cache: redis set: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *RedisRouteCache) Close() error {
	return c.rdb.Close()
}
