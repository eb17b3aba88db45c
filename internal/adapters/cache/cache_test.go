package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/Rebecca042/CityTour-Planner/internal/adapters/cache"
	"github.com/Rebecca042/CityTour-Planner/internal/adapters/repositories"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/db"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

var sampleRoute = ports.RouteResult{
	DistanceMeters:  1234.5,
	DurationSeconds: 880,
	Geometry:        [][2]float64{{11.575, 48.137}, {11.580, 48.139}},
}

func newSQLCache(t *testing.T) *cache.SQLRouteCache {
	t.Helper()
	conn, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := repositories.InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("InitSchema() err = %v", err)
	}
	return cache.NewSQLRouteCache(conn)
}

func newRedisCache(t *testing.T, ttl time.Duration) (*cache.RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewRedisRouteCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func equalRoute(a, b ports.RouteResult) bool {
	if a.DistanceMeters != b.DistanceMeters || a.DurationSeconds != b.DurationSeconds || len(a.Geometry) != len(b.Geometry) {
		return false
	}
	for i := range a.Geometry {
		if a.Geometry[i] != b.Geometry[i] {
			return false
		}
	}
	return true
}

func TestRouteCaches(t *testing.T) {
	sqlCache := newSQLCache(t)
	redisCache, _ := newRedisCache(t, time.Hour)

	for name, c := range map[string]ports.RouteCache{"sql": sqlCache, "redis": redisCache} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v err %v, want miss", ok, err)
			}

			if err := c.Set(ctx, "k1", sampleRoute); err != nil {
				t.Fatalf("Set() err = %v", err)
			}
			got, ok, err := c.Get(ctx, "k1")
			if err != nil || !ok {
				t.Fatalf("Get(k1) = ok %v err %v, want hit", ok, err)
			}
			if !equalRoute(got, sampleRoute) {
				t.Fatalf("Get(k1) = %+v, want %+v", got, sampleRoute)
			}

			updated := ports.RouteResult{DistanceMeters: 10, DurationSeconds: 7}
			if err := c.Set(ctx, "k1", updated); err != nil {
				t.Fatalf("Set() overwrite err = %v", err)
			}
			got, _, err = c.Get(ctx, "k1")
			if err != nil {
				t.Fatalf("Get(k1) err = %v", err)
			}
			if !equalRoute(got, updated) {
				t.Fatalf("Get(k1) after overwrite = %+v, want %+v", got, updated)
			}
		})
	}
}

func TestSQLRouteCacheRejectsEmptyKey(t *testing.T) {
	c := newSQLCache(t)
	if err := c.Set(context.Background(), " ", sampleRoute); err == nil {
		t.Fatalf("Set(empty key) err = nil, want error")
	}
	if _, _, err := c.Get(context.Background(), ""); err == nil {
		t.Fatalf("Get(empty key) err = nil, want error")
	}
}

func TestSQLRouteCacheNilDB(t *testing.T) {
	c := cache.NewSQLRouteCache(nil)
	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatalf("Get() err = nil, want error")
	}
}

func TestRedisRouteCacheExpires(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k", sampleRoute); err != nil {
		t.Fatalf("Set() err = %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("Get() after ttl = ok %v err %v, want miss", ok, err)
	}
}

func TestRedisRouteCacheServerDown(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	mr.Close()

	if _, _, err := c.Get(context.Background(), "k"); err == nil {
		t.Fatalf("Get() err = nil, want connection error")
	}
}

func TestNewRedisRouteCacheFromURL(t *testing.T) {
	if _, err := cache.NewRedisRouteCacheFromURL("not a url", 0); err == nil {
		t.Fatalf("err = nil, want parse error")
	}

	mr := miniredis.RunT(t)
	c, err := cache.NewRedisRouteCacheFromURL("redis://"+mr.Addr(), 0)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	defer c.Close()

	if err := c.Set(context.Background(), "k", sampleRoute); err != nil {
		t.Fatalf("Set() err = %v", err)
	}
	if !mr.Exists("route:k") {
		t.Fatalf("key route:k missing from redis")
	}
}
