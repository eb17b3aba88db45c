package dto

import (
	"fmt"
	"strings"

	"github.com/Rebecca042/CityTour-Planner/internal/domain"
)

// SightDTO carries coordinates as pointers so a missing lat or lon is told
// apart from the equator or the prime meridian.
type SightDTO struct {
	Name               string   `json:"name"`
	Lat                *float64 `json:"lat"`
	Lon                *float64 `json:"lon"`
	Category           string   `json:"category,omitempty"`
	WeatherSuitability []string `json:"weather_suitability,omitempty"`
	Description        string   `json:"description,omitempty"`
}

type ListSightsResponse struct {
	Sights []SightDTO `json:"sights"`
}

func FromSight(s domain.Sight) SightDTO {
	tags := make([]string, 0, len(s.WeatherSuitability))
	for _, w := range s.WeatherSuitability {
		tags = append(tags, w.String())
	}
	lat, lon := s.Location.Lat, s.Location.Lon
	return SightDTO{
		Name:               s.Name,
		Lat:                &lat,
		Lon:                &lon,
		Category:           s.Category,
		WeatherSuitability: tags,
		Description:        s.Description,
	}
}

// ToSight validates d. Missing tags are derived from the category.
func (d SightDTO) ToSight() (domain.Sight, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return domain.Sight{}, fmt.Errorf("sight name is required")
	}

	if d.Lat == nil || d.Lon == nil {
		return domain.Sight{}, fmt.Errorf("sight %q: %w: lat and lon are required", name, domain.ErrInvalidCoordinates)
	}
	loc := domain.Coordinates{Lat: *d.Lat, Lon: *d.Lon}
	if err := loc.Validate(); err != nil {
		return domain.Sight{}, fmt.Errorf("sight %q: %w", name, err)
	}

	tags := make([]domain.Weather, 0, len(d.WeatherSuitability))
	for _, t := range d.WeatherSuitability {
		w, err := domain.ParseWeather(t)
		if err != nil {
			return domain.Sight{}, fmt.Errorf("sight %q: %w", name, err)
		}
		tags = append(tags, w)
	}
	if len(tags) == 0 {
		tags = domain.SuitabilityForCategory(d.Category)
	}

	return domain.Sight{
		Name:               name,
		Location:           loc,
		Category:           strings.TrimSpace(d.Category),
		WeatherSuitability: tags,
		Description:        d.Description,
	}, nil
}
