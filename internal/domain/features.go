package domain

import (
	"encoding/json"
	"fmt"
)

// Features is the context feature record handed to the personalization
// service: the current weather, the day of week, and the service address.
//
// A Features value is immutable once built. Copies share nothing mutable,
// so records can be read from any number of goroutines without locking.
type Features struct {
	weather Weather
	day     DayOfWeek
	host    HostName
}

// FeatureOption customizes a record at construction time.
type FeatureOption func(*Features)

// WithHostName sets the personalization endpoint carried by the record.
// Without it the record carries PlaceholderHostName.
func WithHostName(h HostName) FeatureOption {
	return func(f *Features) {
		f.host = h
	}
}

// NewFeatures builds a record from its two context features.
// Values outside the Weather or DayOfWeek enumerations are rejected,
// as is a malformed host name.
func NewFeatures(weather Weather, day DayOfWeek, opts ...FeatureOption) (Features, error) {
	if !weather.Valid() {
		return Features{}, fmt.Errorf("%w: %d", ErrInvalidWeather, int(weather))
	}
	if !day.Valid() {
		return Features{}, fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, int(day))
	}

	f := Features{
		weather: weather,
		day:     day,
		host:    PlaceholderHostName,
	}
	for _, opt := range opts {
		opt(&f)
	}

	host, err := ParseHostName(string(f.host))
	if err != nil {
		return Features{}, err
	}
	f.host = host

	return f, nil
}

// Weather returns the weather used in the rank call context features.
func (f Features) Weather() Weather { return f.weather }

// DayOfWeek returns the day used in the rank call context features.
func (f Features) DayOfWeek() DayOfWeek { return f.day }

// HostName returns the personalization service endpoint.
func (f Features) HostName() HostName { return f.host }

// IsZero reports whether f was never built by NewFeatures.
func (f Features) IsZero() bool { return f == Features{} }

// ContextFeatures returns the record as the list of single-key objects
// a rank request carries, e.g. [{"weather":"Sunny"},{"dayofweek":"Monday"}].
func (f Features) ContextFeatures() []map[string]string {
	return []map[string]string{
		{"weather": f.weather.String()},
		{"dayofweek": f.day.String()},
	}
}

func (f Features) String() string {
	return fmt.Sprintf("Features{weather=%s day=%s host=%s}", f.weather, f.day, f.host)
}

type featuresJSON struct {
	Weather   Weather    `json:"weather"`
	DayOfWeek *DayOfWeek `json:"dayOfWeek"`
	HostName  HostName   `json:"hostName"`
}

func (f Features) MarshalJSON() ([]byte, error) {
	day := f.day
	return json.Marshal(featuresJSON{
		Weather:   f.weather,
		DayOfWeek: &day,
		HostName:  f.host,
	})
}

// UnmarshalJSON decodes a record and re-applies constructor validation.
func (f *Features) UnmarshalJSON(data []byte) error {
	var raw featuresJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	// Sunday is the zero day, so absence has to be detected explicitly.
	if raw.DayOfWeek == nil {
		return fmt.Errorf("%w: missing", ErrInvalidDayOfWeek)
	}
	opts := []FeatureOption{}
	if raw.HostName != "" {
		opts = append(opts, WithHostName(raw.HostName))
	}
	parsed, err := NewFeatures(raw.Weather, *raw.DayOfWeek, opts...)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
