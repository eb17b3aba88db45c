package domain

import (
	"fmt"
	"strings"
)

// TravelMode selects the routing profile used between sights.
type TravelMode string

const (
	Walking TravelMode = "walking"
	Cycling TravelMode = "cycling"
	Driving TravelMode = "driving"
)

// ParseTravelMode accepts walking, cycling and driving; empty means walking.
func ParseTravelMode(s string) (TravelMode, error) {
	m := TravelMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case "":
		return Walking, nil
	case Walking, Cycling, Driving:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTravelMode, s)
}
