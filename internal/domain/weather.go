package domain

import (
	"fmt"
	"strings"
)

// Weather is the weather category sent as a context feature.
// The zero value is not a member, so an unset weather is detectable.
type Weather int

const (
	Sunny Weather = iota + 1
	Rainy
	Snowy
)

var weatherNames = map[Weather]string{
	Sunny: "Sunny",
	Rainy: "Rainy",
	Snowy: "Snowy",
}

// AllWeather returns every member of the enumeration in declaration order.
func AllWeather() []Weather {
	return []Weather{Sunny, Rainy, Snowy}
}

// Valid reports whether w is a member of the enumeration.
func (w Weather) Valid() bool {
	_, ok := weatherNames[w]
	return ok
}

func (w Weather) String() string {
	if name, ok := weatherNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Weather(%d)", int(w))
}

// ParseWeather parses a weather name, ignoring case and surrounding spaces.
// Example: "sunny" -> Sunny
func ParseWeather(s string) (Weather, error) {
	s = strings.TrimSpace(s)
	for w, name := range weatherNames {
		if strings.EqualFold(s, name) {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWeather, s)
}

func (w Weather) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWeather, int(w))
	}
	return []byte(w.String()), nil
}

func (w *Weather) UnmarshalText(text []byte) error {
	parsed, err := ParseWeather(string(text))
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
