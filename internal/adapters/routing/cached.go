package routing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

// CachedRouteProvider serves routes from a RouteCache before asking the
// wrapped provider. Cache failures are logged and never fail a lookup.
type CachedRouteProvider struct {
	next  ports.RouteProvider
	cache ports.RouteCache
}

func NewCachedRouteProvider(next ports.RouteProvider, cache ports.RouteCache) *CachedRouteProvider {
	return &CachedRouteProvider{next: next, cache: cache}
}

// RouteKey hashes the travel mode and coordinates rounded to six decimals.
func RouteKey(mode domain.TravelMode, coords []domain.Coordinates) string {
	var b strings.Builder
	b.WriteString(string(mode))
	for _, c := range coords {
		fmt.Fprintf(&b, "|%.6f,%.6f", c.Lon, c.Lat)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func (p *CachedRouteProvider) Route(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TravelMode,
) (*ports.RouteResult, error) {
	if len(coords) < 2 {
		return nil, nil
	}

	key := RouteKey(mode, coords)
	r, ok, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		obs.RouteCacheLookups.WithLabelValues("error").Inc()
		obs.Warn(ctx, "route_cache.get", "%v", err)
	case ok:
		obs.RouteCacheLookups.WithLabelValues("hit").Inc()
		return &r, nil
	default:
		obs.RouteCacheLookups.WithLabelValues("miss").Inc()
	}

	res, err := p.next.Route(ctx, coords, mode)
	if err != nil || res == nil {
		return res, err
	}

	if err := p.cache.Set(ctx, key, *res); err != nil {
		obs.Warn(ctx, "route_cache.set", "%v", err)
	}
	return res, nil
}
