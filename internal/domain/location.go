package domain

import (
	"strings"
	"time"
	"unicode"
)

// Location is a place whose current weather feeds feature records.
//
// Locations come from the conditions file and are mirrored in Redis.
// A Location is uniquely identified by its normalized name.
type Location struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier.
	// It MUST be equal to LocationID(Name).
	ID string

	// Name is the display name.
	// Example: New York
	Name string

	// ─────────────────────────────
	// Current conditions
	// (overwritten by conditions reload)
	// ─────────────────────────────

	Weather Weather

	// ─────────────────────────────
	// Provenance & observation
	// ─────────────────────────────

	// Sources indicates where this location was discovered from.
	// Example: conditions, redis
	Sources []string

	// LastSeenAt is updated whenever the location is observed in a source.
	LastSeenAt time.Time

	// ─────────────────────────────
	// Usage
	// ─────────────────────────────

	// Lookups counts feature records built for this location.
	Lookups int64

	CreatedAt time.Time
	UpdatedAt time.Time

	// ─────────────────────────────
	// Liveness & cleanup
	// ─────────────────────────────

	// Disabled marks a location as soft-deleted.
	// It may be garbage-collected later.
	Disabled bool
}

// LocationID derives the canonical identifier from a display name.
// Example: "  New York " -> "new-york"
func LocationID(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}

// HasSource reports whether the location was observed from source.
func (l *Location) HasSource(source string) bool {
	for _, s := range l.Sources {
		if s == source {
			return true
		}
	}
	return false
}
