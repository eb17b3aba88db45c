package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/Rebecca042/CityTour-Planner/internal/api/dto"
	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/geo"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
	"github.com/Rebecca042/CityTour-Planner/internal/services"
)

// Planner compares planning strategies for one request.
type Planner interface {
	Compare(ctx context.Context, req services.PlanRequest) (services.Comparison, error)
}

type PlanHandler struct {
	Repo        ports.SightRepository
	Planner     Planner
	DefaultMode domain.TravelMode
}

var badInput = []error{
	domain.ErrUnknownWeather,
	domain.ErrEmptyForecast,
	domain.ErrDuplicateSlot,
	domain.ErrDuplicateSight,
	domain.ErrInvalidCoordinates,
	domain.ErrUnknownTravelMode,
}

func isBadInput(err error) bool {
	for _, target := range badInput {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Plan builds a weather-aware tour with every configured strategy and
// returns all plans with the selected one named.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	svcReq, policy, status, err := h.buildRequest(r.Context(), req)
	if err != nil {
		if status == http.StatusInternalServerError {
			log.Printf("req_id=%s plan request failed: %v", obs.RequestID(r.Context()), err)
			writeError(w, r, status, "internal server error")
			return
		}
		writeError(w, r, status, err.Error())
		return
	}

	cmp, err := h.Planner.Compare(r.Context(), svcReq)
	if err != nil {
		if isBadInput(err) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("req_id=%s compare plans failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	if policy != nil {
		cmp.Selected = policy.Select(cmp.Results)
	}

	res := dto.CompareResponse{
		MainWeather: svcReq.Forecast.MainWeather().String(),
		Selected:    cmp.Selected,
		Plans:       make([]dto.PlanResponse, 0, len(cmp.Results)),
	}
	for _, pr := range cmp.Results {
		res.Plans = append(res.Plans, dto.FromPlanResult(pr))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// buildRequest turns the body into a planning request. The returned status
// classifies a failure.
func (h *PlanHandler) buildRequest(ctx context.Context, req dto.PlanRequest) (services.PlanRequest, services.SelectionPolicy, int, error) {
	slots := make([]domain.Slot, 0, len(req.Forecast))
	for _, fs := range req.Forecast {
		wth, err := domain.ParseWeather(fs.Weather)
		if err != nil {
			return services.PlanRequest{}, nil, http.StatusBadRequest, err
		}
		slots = append(slots, domain.Slot{Name: fs.Slot, Weather: wth})
	}
	forecast, err := domain.NewForecast(slots...)
	if err != nil {
		return services.PlanRequest{}, nil, http.StatusBadRequest, err
	}

	mode := h.DefaultMode
	if req.Mode != "" {
		if mode, err = domain.ParseTravelMode(req.Mode); err != nil {
			return services.PlanRequest{}, nil, http.StatusBadRequest, err
		}
	}
	if mode == "" {
		mode = domain.Walking
	}

	var policy services.SelectionPolicy
	if req.Selection != "" {
		if policy, err = services.ParseSelectionPolicy(req.Selection); err != nil {
			return services.PlanRequest{}, nil, http.StatusBadRequest, err
		}
	}

	var sights []domain.Sight
	if len(req.Sights) > 0 {
		sights = make([]domain.Sight, 0, len(req.Sights))
		for _, sd := range req.Sights {
			s, err := sd.ToSight()
			if err != nil {
				return services.PlanRequest{}, nil, http.StatusBadRequest, err
			}
			sights = append(sights, s)
		}
	} else if h.Repo != nil {
		if sights, err = h.Repo.ListSights(ctx); err != nil {
			return services.PlanRequest{}, nil, http.StatusInternalServerError, err
		}
	}
	if len(sights) == 0 {
		return services.PlanRequest{}, nil, http.StatusBadRequest, errors.New("no sights to plan")
	}

	var center domain.Coordinates
	if req.CityCenter != nil {
		if center, err = req.CityCenter.ToCoordinates(); err != nil {
			return services.PlanRequest{}, nil, http.StatusBadRequest, fmt.Errorf("city center: %w", err)
		}
	} else {
		center, _ = geo.Centroid(sights)
	}

	return services.PlanRequest{
		Sights:     sights,
		Forecast:   forecast,
		CityCenter: center,
		Mode:       mode,
	}, policy, http.StatusOK, nil
}
