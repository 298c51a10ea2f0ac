package domain

import "errors"

var (
	// ErrInvalidWeather is returned when a value is outside the Weather enumeration.
	ErrInvalidWeather = errors.New("invalid weather")

	// ErrInvalidDayOfWeek is returned when a value is outside the DayOfWeek enumeration.
	ErrInvalidDayOfWeek = errors.New("invalid day of week")

	// ErrInvalidHostName is returned when a personalization endpoint cannot be used.
	ErrInvalidHostName = errors.New("invalid host name")
)
