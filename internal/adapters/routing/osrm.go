package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

const DefaultOSRMBaseURL = "https://router.project-osrm.org"

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// OSRMRouteProvider implements RouteProvider against an OSRM route service.
//
// The provider is safe for concurrent use.
type OSRMRouteProvider struct {
	c       *client
	baseURL string
}

func NewOSRMRouteProvider(baseURL string, opts ...Option) *OSRMRouteProvider {
	if baseURL == "" {
		baseURL = DefaultOSRMBaseURL
	}
	return &OSRMRouteProvider{
		c:       newClient(opts...),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *OSRMRouteProvider) Route(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TravelMode,
) (_ *ports.RouteResult, err error) {
	if len(coords) < 2 {
		return nil, nil
	}
	defer obs.Time(ctx, "osrm.Route")(&err)

	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts,
			strconv.FormatFloat(c.Lon, 'f', 6, 64)+","+strconv.FormatFloat(c.Lat, 'f', 6, 64))
	}
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		p.baseURL, osrmProfile(mode), strings.Join(parts, ";"))

	resp, err := p.c.doWithRetry(ctx, func() (*http.Request, error) {
		return p.c.newRequest(ctx, http.MethodGet, endpoint, nil)
	})
	if err != nil {
		obs.RoutingRequests.WithLabelValues("osrm", "error").Inc()
		return nil, fmt.Errorf("osrm route: %w", err)
	}
	defer resp.Body.Close()

	var or osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&or); err != nil {
		obs.RoutingRequests.WithLabelValues("osrm", "error").Inc()
		return nil, fmt.Errorf("osrm route: decode response: %w", err)
	}

	if or.Code != "Ok" || len(or.Routes) == 0 {
		obs.RoutingRequests.WithLabelValues("osrm", "unroutable").Inc()
		return nil, fmt.Errorf("osrm route: code %q: %w", or.Code, ports.ErrUnroutable)
	}

	obs.RoutingRequests.WithLabelValues("osrm", "ok").Inc()
	r := or.Routes[0]
	return &ports.RouteResult{
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        r.Geometry.Coordinates,
	}, nil
}
