package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

// SQLRouteCache is a SQL-backed cache for routed slot tours. Queries are
// rebound per driver, so the same cache serves Postgres (pgx) and SQLite.
type SQLRouteCache struct {
	DB *sqlx.DB
}

func NewSQLRouteCache(db *sqlx.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

type routeRow struct {
	DistanceMeters  float64 `db:"distance_meters"`
	DurationSeconds float64 `db:"duration_seconds"`
	Geometry        string  `db:"geometry"`
}

// Fetch a cached route by key.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.RouteResult{}, false, errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return ports.RouteResult{}, false, errors.New("get route cache: key must not be empty")
	}

	q := s.DB.Rebind(`
	SELECT distance_meters, duration_seconds, geometry
    FROM route_cache
    WHERE route_key = ?;
	`)

	var row routeRow
	if err := s.DB.GetContext(ctx, &row, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.RouteResult{}, false, nil
		}
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	out := ports.RouteResult{
		DistanceMeters:  row.DistanceMeters,
		DurationSeconds: row.DurationSeconds,
	}
	if row.Geometry != "" {
		if err := json.Unmarshal([]byte(row.Geometry), &out.Geometry); err != nil {
			return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode geometry: %w", err)
		}
	}
	return out, true, nil
}

// Store a route under key, replacing any previous entry.
func (s *SQLRouteCache) Set(ctx context.Context, key string, r ports.RouteResult) (err error) {
	defer obs.Time(ctx, "route.cache.sql.Set")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	geometry, err := json.Marshal(r.Geometry)
	if err != nil {
		return fmt.Errorf("insert route cache: encode geometry: %w", err)
	}

	q := s.DB.Rebind(`
	INSERT INTO route_cache (route_key, distance_meters, duration_seconds, geometry)
    VALUES (?, ?, ?, ?)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds,
		geometry = excluded.geometry;
	`)
	if _, err := s.DB.ExecContext(ctx, q, key, r.DistanceMeters, r.DurationSeconds, string(geometry)); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
