package domain

import "errors"

var (
	ErrUnknownWeather     = errors.New("unknown weather tag")
	ErrEmptyForecast      = errors.New("forecast has no slots")
	ErrDuplicateSlot      = errors.New("duplicate forecast slot")
	ErrDuplicateSight     = errors.New("duplicate sight name")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrUnknownTravelMode  = errors.New("unknown travel mode")
)
