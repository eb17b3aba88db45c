package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Rebecca042/CityTour-Planner/internal/api/handlers"
	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

// Deps are the collaborators the HTTP layer needs. DB is optional.
type Deps struct {
	Repo        ports.SightRepository
	Planner     handlers.Planner
	DB          handlers.Pinger
	DefaultMode domain.TravelMode
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	obs.RegisterDefault()

	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{DB: d.DB}
	sightHandler := &handlers.SightHandler{Repo: d.Repo}
	planHandler := &handlers.PlanHandler{
		Repo:        d.Repo,
		Planner:     d.Planner,
		DefaultMode: d.DefaultMode,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/sights", sightHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", promhttp.HandlerFor(obs.Registry, promhttp.HandlerOpts{}))

	routes := map[string]bool{"/health": true, "/sights": true, "/plans": true, "/metrics": true}
	return requestIDMiddleware(loggingMiddleware(routes, mux))
}
