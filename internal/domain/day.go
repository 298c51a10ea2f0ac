package domain

import (
	"fmt"
	"strings"
	"time"
)

// DayOfWeek is the calendar weekday sent as a context feature.
// Numbering follows time.Weekday (Sunday = 0).
type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AllDays returns the seven days starting from Sunday.
func AllDays() []DayOfWeek {
	return []DayOfWeek{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// DayOfWeekFromTime returns the weekday of t in t's own location.
func DayOfWeekFromTime(t time.Time) DayOfWeek {
	return DayOfWeek(t.Weekday())
}

// Valid reports whether d is one of the seven days.
func (d DayOfWeek) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// Weekday converts d to the standard library representation.
func (d DayOfWeek) Weekday() time.Weekday {
	return time.Weekday(d)
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return time.Weekday(d).String()
}

// ParseDayOfWeek parses a full day name or its three-letter abbreviation,
// ignoring case. Examples: "monday", "Mon", " FRI "
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	s = strings.TrimSpace(s)
	for _, d := range AllDays() {
		name := d.String()
		if strings.EqualFold(s, name) || strings.EqualFold(s, name[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDayOfWeek, s)
}

func (d DayOfWeek) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDayOfWeek, int(d))
	}
	return []byte(d.String()), nil
}

func (d *DayOfWeek) UnmarshalText(text []byte) error {
	parsed, err := ParseDayOfWeek(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
