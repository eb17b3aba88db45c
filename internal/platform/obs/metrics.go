package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// PlanDuration records planning wall time per strategy.
	PlanDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "planner_plan_duration_seconds", Help: "Planning duration per strategy in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"strategy"},
	)
	// TSPSolves counts exact ordering attempts by outcome (optimal, trivial, fallback).
	TSPSolves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "planner_tsp_solves_total", Help: "TSP solves by outcome."},
		[]string{"outcome"},
	)
	BalanceMoves = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "planner_balance_moves_total", Help: "Sights moved between weather groups."},
	)

	RoutingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routing_requests_total", Help: "Routing collaborator requests by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	RouteCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_cache_lookups_total", Help: "Route cache lookups by result."},
		[]string{"result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(PlanDuration)
		Registry.MustRegister(TSPSolves)
		Registry.MustRegister(BalanceMoves)
		Registry.MustRegister(RoutingRequests)
		Registry.MustRegister(RouteCacheLookups)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
