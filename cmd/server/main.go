package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Rebecca042/CityTour-Planner/internal/adapters/cache"
	"github.com/Rebecca042/CityTour-Planner/internal/adapters/repositories"
	"github.com/Rebecca042/CityTour-Planner/internal/adapters/routing"
	"github.com/Rebecca042/CityTour-Planner/internal/api"
	"github.com/Rebecca042/CityTour-Planner/internal/config"
	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/db"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
	"github.com/Rebecca042/CityTour-Planner/internal/services"
	"github.com/Rebecca042/CityTour-Planner/internal/tsp"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, OSRM/ORS) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.Database.URL, cfg.Database.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(conn, cfg.Database.SeedPath); err != nil {
		log.Fatal(err)
	}

	provider, err := newRouteProvider(cfg, conn)
	if err != nil {
		log.Fatal(err)
	}

	mode, err := domain.ParseTravelMode(cfg.Routing.Mode)
	if err != nil {
		log.Fatal(err)
	}
	policy, err := services.ParseSelectionPolicy(cfg.Planner.Selection)
	if err != nil {
		log.Fatal(err)
	}

	solver := tsp.NewSolver(tsp.Options{MaxNodes: cfg.Planner.MaxNodes})
	comparator := services.NewComparator(
		services.NewReducer(provider, 0),
		policy,
		services.NewGreedyPlanner(solver, cfg.Planner.SolveTimeout),
		services.NewIterativePlanner(solver, cfg.Planner.MaxIters, cfg.Planner.SolveTimeout),
	)

	router := api.NewRouter(api.Deps{
		Repo:        repositories.NewSQLSightRepository(conn),
		Planner:     comparator,
		DB:          conn,
		DefaultMode: mode,
	})

	// Timeouts are tuned for exact ordering plus cold-cache routing.
	log.Printf("Server listening addr=:%s routing=%s", cfg.Server.Port, cfg.Routing.Provider)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// newRouteProvider picks the routing collaborator and puts the route cache
// in front of it: Redis when REDIS_URL is set, the SQL database otherwise.
// The none provider yields a nil RouteProvider (haversine metrics only).
func newRouteProvider(cfg *config.Config, conn *sqlx.DB) (ports.RouteProvider, error) {
	opts := []routing.Option{
		routing.WithHTTPClient(&http.Client{Timeout: cfg.Routing.Timeout}),
		routing.WithRateLimit(cfg.Routing.RatePerSec),
		routing.WithMaxAttempts(cfg.Routing.MaxAttempts),
	}

	var next ports.RouteProvider
	switch cfg.Routing.Provider {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderORS:
		p, err := routing.NewORSRouteProvider(cfg.Routing.ORSAPIKey, "", opts...)
		if err != nil {
			return nil, fmt.Errorf("route provider: %w", err)
		}
		next = p
	default:
		next = routing.NewOSRMRouteProvider(cfg.Routing.OSRMBaseURL, opts...)
	}

	var routeCache ports.RouteCache = cache.NewSQLRouteCache(conn)
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisRouteCacheFromURL(cfg.Cache.RedisURL, cfg.Cache.RouteTTL)
		if err != nil {
			return nil, fmt.Errorf("route provider: %w", err)
		}
		routeCache = rc
	}

	return routing.NewCachedRouteProvider(next, routeCache), nil
}

func initAndSeed(conn *sqlx.DB, seedPath string) error {
	ctx := context.Background()
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	n, err := repositories.SeedFromFile(ctx, conn, seedPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("No seed file at %s (serving stored sights only)", seedPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	log.Printf("Seeded sights count=%d path=%s", n, seedPath)

	return nil
}
