package domain

import (
	"fmt"
	"strings"
)

// Weather is a weather category. It tags both forecast slots and the
// conditions a sight is suitable for.
type Weather string

const (
	Sunny  Weather = "sunny"
	Cloudy Weather = "cloudy"
	Rainy  Weather = "rainy"
	Snowy  Weather = "snowy"
	Windy  Weather = "windy"

	// Any marks a sight as suitable in every weather. It is never a forecast value.
	Any Weather = "any"
)

// ConcreteWeathers lists every forecastable category in canonical order.
var ConcreteWeathers = []Weather{Sunny, Cloudy, Rainy, Snowy, Windy}

// ParseWeather normalizes s and maps it onto the closed set of categories.
func ParseWeather(s string) (Weather, error) {
	w := Weather(strings.ToLower(strings.TrimSpace(s)))
	switch w {
	case Sunny, Cloudy, Rainy, Snowy, Windy, Any:
		return w, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWeather, s)
}

// IsConcrete reports whether w can appear in a forecast.
func (w Weather) IsConcrete() bool {
	switch w {
	case Sunny, Cloudy, Rainy, Snowy, Windy:
		return true
	}
	return false
}

func (w Weather) String() string { return string(w) }
