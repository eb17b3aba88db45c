package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

const DefaultORSBaseURL = "https://api.openrouteservice.org"

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSRouteProvider implements RouteProvider using the OpenRouteService
// directions endpoint.
//
// The provider is safe for concurrent use.
type ORSRouteProvider struct {
	c       *client
	baseURL string
}

func NewORSRouteProvider(apiKey string, baseURL string, opts ...Option) (*ORSRouteProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultORSBaseURL
	}

	c := newClient(opts...)
	c.headers.Set("Authorization", apiKey)

	return &ORSRouteProvider{c: c, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (p *ORSRouteProvider) Route(
	ctx context.Context,
	coords []domain.Coordinates,
	mode domain.TravelMode,
) (_ *ports.RouteResult, err error) {
	if len(coords) < 2 {
		return nil, nil
	}
	defer obs.Time(ctx, "ors.Route")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", p.baseURL, orsProfile(mode))

	body := directionsRequest{Coordinates: make([][]float64, 0, len(coords))}
	for _, c := range coords {
		body.Coordinates = append(body.Coordinates, c.CoordsToList())
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := p.c.doWithRetry(ctx, func() (*http.Request, error) {
		return p.c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		obs.RoutingRequests.WithLabelValues("ors", "error").Inc()
		return nil, fmt.Errorf("ors directions: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		obs.RoutingRequests.WithLabelValues("ors", "error").Inc()
		return nil, fmt.Errorf("ors directions: decode response: %w", err)
	}

	if len(dr.Features) == 0 {
		obs.RoutingRequests.WithLabelValues("ors", "unroutable").Inc()
		return nil, fmt.Errorf("ors directions: empty feature collection: %w", ports.ErrUnroutable)
	}

	obs.RoutingRequests.WithLabelValues("ors", "ok").Inc()
	f := dr.Features[0]
	return &ports.RouteResult{
		DistanceMeters:  f.Properties.Summary.Distance,
		DurationSeconds: f.Properties.Summary.Duration,
		Geometry:        f.Geometry.Coordinates,
	}, nil
}
