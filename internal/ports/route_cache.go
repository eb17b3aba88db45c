package ports

import "context"

// Storage for previously computed routes, keyed by a stable hash of the
// travel mode and coordinates.
type RouteCache interface {
	// Return the cached route and whether it was found.
	Get(ctx context.Context, key string) (RouteResult, bool, error)
	Set(ctx context.Context, key string, r RouteResult) error
}
