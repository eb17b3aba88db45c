package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Rebecca042/CityTour-Planner/internal/adapters/routing"
	"github.com/Rebecca042/CityTour-Planner/internal/api/dto"
	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
	"github.com/Rebecca042/CityTour-Planner/internal/services"
)

type memRepo struct {
	sights []domain.Sight
	err    error
}

func (m *memRepo) ListSights(ctx context.Context) ([]domain.Sight, error) {
	return m.sights, m.err
}

func (m *memRepo) UpsertSights(ctx context.Context, sights []domain.Sight) error {
	m.sights = append(m.sights, sights...)
	return nil
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("connection refused") }

var catalogue = []domain.Sight{
	{Name: "Hofgarten", Location: domain.Coordinates{Lat: 48.142, Lon: 11.580}, Category: "garden", WeatherSuitability: []domain.Weather{domain.Sunny}},
	{Name: "Residenz", Location: domain.Coordinates{Lat: 48.141, Lon: 11.578}, Category: "palace", WeatherSuitability: []domain.Weather{domain.Rainy, domain.Cloudy}},
	{Name: "Frauenkirche", Location: domain.Coordinates{Lat: 48.138, Lon: 11.573}, Category: "church", WeatherSuitability: []domain.Weather{domain.Any}},
	{Name: "Viktualienmarkt", Location: domain.Coordinates{Lat: 48.135, Lon: 11.576}, Category: "market", WeatherSuitability: []domain.Weather{domain.Sunny, domain.Cloudy}},
}

func newTestServer(t *testing.T, repo *memRepo, provider *routing.MockRouteProvider) *httptest.Server {
	t.Helper()
	var rp ports.RouteProvider
	if provider != nil {
		rp = provider
	}
	cmp := services.NewComparator(
		services.NewReducer(rp, 0),
		services.ShortestPolicy{},
		services.NewGreedyPlanner(nil, time.Second),
		services.NewIterativePlanner(nil, 0, time.Second),
	)
	srv := httptest.NewServer(NewRouter(Deps{Repo: repo, Planner: cmp, DefaultMode: domain.Walking}))
	t.Cleanup(srv.Close)
	return srv
}

func postPlan(t *testing.T, srv *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/plans", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /plans: %v", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &memRepo{}, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Fatalf("missing %s header", requestIDHeader)
	}
}

func TestHealthReportsDatabase(t *testing.T) {
	h := NewRouter(Deps{Repo: &memRepo{}, DB: failingPinger{}})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := NewRouter(Deps{Repo: &memRepo{}})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("%s = %q, want abc-123", requestIDHeader, got)
	}
}

func TestListSightsFiltersByWeather(t *testing.T) {
	srv := newTestServer(t, &memRepo{sights: catalogue}, nil)

	resp, err := http.Get(srv.URL + "/sights?weather=rainy")
	if err != nil {
		t.Fatalf("GET /sights: %v", err)
	}
	defer resp.Body.Close()

	var got dto.ListSightsResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Residenz lists rainy, Frauenkirche fits any weather.
	if len(got.Sights) != 2 {
		t.Fatalf("len(sights) = %d, want 2", len(got.Sights))
	}

	resp2, err := http.Get(srv.URL + "/sights?weather=foggy")
	if err != nil {
		t.Fatalf("GET /sights: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp2.StatusCode)
	}
}

func TestPlanFromCatalogue(t *testing.T) {
	provider := routing.NewMockRouteProvider()
	srv := newTestServer(t, &memRepo{sights: catalogue}, provider)

	resp, body := postPlan(t, srv, `{
		"city_center": {"lat": 48.137, "lon": 11.575},
		"forecast": [{"slot": "morning", "weather": "sunny"}, {"slot": "afternoon", "weather": "rainy"}]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, body)
	}

	var got dto.CompareResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Plans) != 2 {
		t.Fatalf("len(plans) = %d, want 2", len(got.Plans))
	}
	if got.MainWeather != "rainy" {
		t.Fatalf("main_weather = %q, want rainy", got.MainWeather)
	}
	if got.Selected == "" {
		t.Fatalf("selected is empty")
	}

	for _, p := range got.Plans {
		if len(p.Slots) != 2 || p.Slots[0].Slot != "morning" || p.Slots[1].Slot != "afternoon" {
			t.Fatalf("%s slots = %+v, want morning then afternoon", p.Strategy, p.Slots)
		}
		total := 0
		for _, s := range p.Slots {
			total += len(s.Sights)
		}
		if total != len(catalogue) {
			t.Fatalf("%s planned %d sights, want %d", p.Strategy, total, len(catalogue))
		}
		if p.TotalLengthMeters == nil {
			t.Fatalf("%s total_length_meters = null, want routed total", p.Strategy)
		}
	}
}

func TestPlanSelectionOverride(t *testing.T) {
	srv := newTestServer(t, &memRepo{sights: catalogue}, nil)

	resp, body := postPlan(t, srv, `{
		"forecast": [{"slot": "morning", "weather": "cloudy"}],
		"selection": "aware"
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, body)
	}

	var got dto.CompareResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Selected != services.StrategyAware {
		t.Fatalf("selected = %q, want %q", got.Selected, services.StrategyAware)
	}
	// no provider: totals stay unknown for multi-stop slots
	for _, p := range got.Plans {
		if p.TotalLengthMeters != nil {
			t.Fatalf("%s total_length_meters = %v, want null", p.Strategy, *p.TotalLengthMeters)
		}
	}
}

func TestPlanRoutingFailureStillReturnsPlans(t *testing.T) {
	provider := routing.NewMockRouteProvider()
	provider.Err = errors.New("router down")
	srv := newTestServer(t, &memRepo{sights: catalogue}, provider)

	resp, body := postPlan(t, srv, `{"forecast": [{"slot": "morning", "weather": "sunny"}]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, body)
	}

	var got dto.CompareResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, p := range got.Plans {
		if !strings.Contains(p.Message, "router down") {
			t.Fatalf("%s message = %q, want routing failure", p.Strategy, p.Message)
		}
	}
}

func TestPlanInlineSights(t *testing.T) {
	srv := newTestServer(t, &memRepo{}, nil)

	resp, body := postPlan(t, srv, `{
		"forecast": [{"slot": "morning", "weather": "sunny"}],
		"sights": [
			{"name": "A", "lat": 48.1, "lon": 11.5, "weather_suitability": ["sunny"]},
			{"name": "B", "lat": 48.2, "lon": 11.6, "category": "park"}
		]
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", resp.StatusCode, body)
	}
}

func TestPlanRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"unknown field", `{"forecast": [], "hub": "x"}`},
		{"empty forecast", `{"forecast": []}`},
		{"any in forecast", `{"forecast": [{"slot": "morning", "weather": "any"}]}`},
		{"unknown weather", `{"forecast": [{"slot": "morning", "weather": "foggy"}]}`},
		{"duplicate slot", `{"forecast": [{"slot": "m", "weather": "sunny"}, {"slot": "m", "weather": "rainy"}]}`},
		{"bad mode", `{"forecast": [{"slot": "m", "weather": "sunny"}], "mode": "flying"}`},
		{"bad selection", `{"forecast": [{"slot": "m", "weather": "sunny"}], "selection": "cheapest"}`},
		{"duplicate sight", `{"forecast": [{"slot": "m", "weather": "sunny"}], "sights": [
			{"name": "A", "lat": 1, "lon": 1}, {"name": "A", "lat": 2, "lon": 2}]}`},
		{"bad center", `{"forecast": [{"slot": "m", "weather": "sunny"}], "city_center": {"lat": 91, "lon": 0}}`},
		{"center without lon", `{"forecast": [{"slot": "m", "weather": "sunny"}], "city_center": {"lat": 48.1}}`},
		{"sight without coordinates", `{"forecast": [{"slot": "m", "weather": "sunny"}], "sights": [
			{"name": "Nowhere", "weather_suitability": ["any"]}]}`},
		{"sight without lat", `{"forecast": [{"slot": "m", "weather": "sunny"}], "sights": [
			{"name": "A", "lat": 48.1, "lon": 11.5}, {"name": "Half", "lon": 11.6}]}`},
	}

	srv := newTestServer(t, &memRepo{sights: catalogue}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postPlan(t, srv, tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", resp.StatusCode, body)
			}
		})
	}
}

func TestPlanNoSights(t *testing.T) {
	srv := newTestServer(t, &memRepo{}, nil)

	resp, _ := postPlan(t, srv, `{"forecast": [{"slot": "morning", "weather": "sunny"}]}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPlanRepositoryFailure(t *testing.T) {
	srv := newTestServer(t, &memRepo{err: errors.New("disk gone")}, nil)

	resp, _ := postPlan(t, srv, `{"forecast": [{"slot": "morning", "weather": "sunny"}]}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewRouter(Deps{Repo: &memRepo{}})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", rec.Header().Get("Allow"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &memRepo{}, nil)

	if _, err := http.Get(srv.URL + "/health"); err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "http_requests_total") {
		t.Fatalf("metrics output lacks http_requests_total")
	}
}
