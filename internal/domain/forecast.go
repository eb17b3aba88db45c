package domain

import (
	"fmt"
	"strings"
)

// Slot is a named period of the day carrying exactly one forecast weather.
type Slot struct {
	Name    string
	Weather Weather
}

// SlotWindow describes the local time span of a default day slot.
type SlotWindow struct {
	Name  string
	Start string
	End   string
}

// DefaultSlots returns the standard three-slot day.
func DefaultSlots() []SlotWindow {
	return []SlotWindow{
		{Name: "morning", Start: "08:00", End: "12:00"},
		{Name: "afternoon", Start: "12:00", End: "17:00"},
		{Name: "evening", Start: "17:00", End: "21:00"},
	}
}

// Forecast maps slot names to weather, preserving the caller's slot order.
type Forecast struct {
	slots []Slot
}

// NewForecast validates slots and builds a Forecast. Slot names must be
// unique and every weather must be concrete.
func NewForecast(slots ...Slot) (Forecast, error) {
	if len(slots) == 0 {
		return Forecast{}, ErrEmptyForecast
	}

	seen := make(map[string]struct{}, len(slots))
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return Forecast{}, fmt.Errorf("new forecast: slot name must be non-empty")
		}
		if _, ok := seen[name]; ok {
			return Forecast{}, fmt.Errorf("new forecast: %w: %q", ErrDuplicateSlot, name)
		}
		seen[name] = struct{}{}

		if !s.Weather.IsConcrete() {
			return Forecast{}, fmt.Errorf("new forecast: slot %q: %w: %q", name, ErrUnknownWeather, s.Weather)
		}
		out = append(out, Slot{Name: name, Weather: s.Weather})
	}

	return Forecast{slots: out}, nil
}

// MustForecast is NewForecast for fixed inputs; it panics on invalid slots.
func MustForecast(slots ...Slot) Forecast {
	f, err := NewForecast(slots...)
	if err != nil {
		panic(err)
	}
	return f
}

// Slots returns a copy of the slots in forecast order.
func (f Forecast) Slots() []Slot {
	return append([]Slot(nil), f.slots...)
}

// SlotNames returns slot names in forecast order.
func (f Forecast) SlotNames() []string {
	out := make([]string, 0, len(f.slots))
	for _, s := range f.slots {
		out = append(out, s.Name)
	}
	return out
}

// WeatherAt returns the weather forecast for slot.
func (f Forecast) WeatherAt(slot string) (Weather, bool) {
	for _, s := range f.slots {
		if s.Name == slot {
			return s.Weather, true
		}
	}
	return "", false
}

// SlotsByWeather maps each forecast weather to its slots, in forecast order.
func (f Forecast) SlotsByWeather() map[Weather][]string {
	out := make(map[Weather][]string)
	for _, s := range f.slots {
		out[s.Weather] = append(out[s.Weather], s.Name)
	}
	return out
}

// MainWeather summarizes the day: sunny if every slot is sunny, rainy if
// any slot is rainy, otherwise Any.
func (f Forecast) MainWeather() Weather {
	if len(f.slots) == 0 {
		return Any
	}

	allSunny := true
	for _, s := range f.slots {
		if s.Weather == Rainy {
			return Rainy
		}
		if s.Weather != Sunny {
			allSunny = false
		}
	}
	if allSunny {
		return Sunny
	}
	return Any
}

// SlotDemand counts forecast slots per weather category. Categories keeps
// first-appearance order from the forecast.
type SlotDemand struct {
	Categories []Weather
	Counts     map[Weather]int
}

// Count returns the number of slots forecast with w.
func (d SlotDemand) Count(w Weather) int { return d.Counts[w] }

// Has reports whether w is forecast for at least one slot.
func (d SlotDemand) Has(w Weather) bool { return d.Counts[w] > 0 }

// Total returns the number of forecast slots.
func (d SlotDemand) Total() int {
	total := 0
	for _, c := range d.Counts {
		total += c
	}
	return total
}
