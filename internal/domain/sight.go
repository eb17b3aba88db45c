package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Sight is a point of interest. Identity is the name, which must be unique
// within a planning run; two sights with the same name are the same sight.
type Sight struct {
	Name     string
	Location Coordinates
	Category string
	// WeatherSuitability is ordered; the first entry is the primary tag.
	WeatherSuitability []Weather
	Description        string
}

// PrimaryWeather returns the first suitability tag, or Any when the sight lists none.
func (s Sight) PrimaryWeather() Weather {
	if len(s.WeatherSuitability) == 0 {
		return Any
	}
	return s.WeatherSuitability[0]
}

// Lists reports whether w appears verbatim in the sight's suitability tags.
func (s Sight) Lists(w Weather) bool {
	return slices.Contains(s.WeatherSuitability, w)
}

// SuitableFor reports whether the sight may be visited under weather w.
func (s Sight) SuitableFor(w Weather) bool {
	return s.Lists(Any) || s.Lists(w)
}

// ValidateSights checks coordinates and name uniqueness for one planning run.
func ValidateSights(sights []Sight) error {
	seen := make(map[string]struct{}, len(sights))
	for i, s := range sights {
		if s.Name == "" {
			return fmt.Errorf("validate sights: sight at index %d has empty name", i)
		}
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("validate sights: %w: %q", ErrDuplicateSight, s.Name)
		}
		seen[s.Name] = struct{}{}

		if err := s.Location.Validate(); err != nil {
			return fmt.Errorf("validate sights: sight %q: %w", s.Name, err)
		}
	}
	return nil
}

// SightNames returns the names of sights in order.
func SightNames(sights []Sight) []string {
	out := make([]string, 0, len(sights))
	for _, s := range sights {
		out = append(out, s.Name)
	}
	return out
}

// SuitabilityForCategory derives weather tags for a sight that carries
// none, based on its category.
func SuitabilityForCategory(category string) []Weather {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "park", "garden", "leisure_park":
		return []Weather{Sunny}
	case "museum", "gallery", "arts_centre", "art", "theatre", "place_of_worship", "school":
		return []Weather{Rainy, Any}
	case "fountain", "bench", "clock", "viewpoint":
		return []Weather{Sunny, Cloudy}
	}
	return []Weather{Any}
}
