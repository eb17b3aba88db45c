package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

func TestORSRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v2/directions/cycling-regular/geojson" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "secret" {
			t.Errorf("Authorization = %q, want secret", got)
		}

		var body directionsRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if len(body.Coordinates) != 2 || body.Coordinates[0][0] != 11.5756 || body.Coordinates[0][1] != 48.1372 {
			t.Errorf("coordinates = %v, want [lon lat] pairs", body.Coordinates)
		}

		w.Write([]byte(`{"type":"FeatureCollection","features":[{"geometry":{"coordinates":[[11.5756,48.1372],[11.582,48.1351]]},"properties":{"summary":{"distance":900,"duration":200}}}]}`))
	}))
	defer srv.Close()

	p, err := NewORSRouteProvider("secret", srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := p.Route(context.Background(), twoStops, domain.Cycling)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DistanceMeters != 900 || got.DurationSeconds != 200 || len(got.Geometry) != 2 {
		t.Fatalf("route = %+v", got)
	}
}

func TestNewORSRouteProviderRequiresKey(t *testing.T) {
	if _, err := NewORSRouteProvider("", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}
