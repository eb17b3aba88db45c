package handlers

import (
	"log"
	"net/http"

	"github.com/Rebecca042/CityTour-Planner/internal/api/dto"
	"github.com/Rebecca042/CityTour-Planner/internal/domain"
	"github.com/Rebecca042/CityTour-Planner/internal/platform/obs"
	"github.com/Rebecca042/CityTour-Planner/internal/ports"
)

// SightHandler exposes the stored sight catalogue.
type SightHandler struct {
	Repo ports.SightRepository
}

// List returns all sights, optionally only those suitable for ?weather=.
func (h *SightHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	var filter domain.Weather
	if q := r.URL.Query().Get("weather"); q != "" {
		wth, err := domain.ParseWeather(q)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		filter = wth
	}

	var sights []domain.Sight
	var err error
	if h.Repo != nil {
		sights, err = h.Repo.ListSights(r.Context())
	}
	if err != nil {
		log.Printf("req_id=%s list sights failed: %v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListSightsResponse{Sights: make([]dto.SightDTO, 0, len(sights))}
	for _, s := range sights {
		if filter != "" && !s.SuitableFor(filter) {
			continue
		}
		res.Sights = append(res.Sights, dto.FromSight(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}
