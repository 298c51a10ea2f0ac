package redis

import "strings"

const (
	// KeyPrefixLocation is the prefix for location keys
	KeyPrefixLocation = "rlf:location:"
	// KeyPrefixCache is the prefix for cached location resolutions
	KeyPrefixCache = "rlf:cache:"
	// KeyPrefixUsage is the prefix for per-location lookup counters
	KeyPrefixUsage = "rlf:usage:"
	// KeyAllLocations is the key for the set of all location IDs
	KeyAllLocations = "rlf:locations:all"
)

// LocationKey returns the Redis key for a location by ID
func LocationKey(id string) string {
	return KeyPrefixLocation + id
}

// CacheKey returns the Redis key for a cached resolution.
// Queries differing only by case or surrounding spaces share a key.
func CacheKey(query string) string {
	return KeyPrefixCache + strings.ToLower(strings.TrimSpace(query))
}

// UsageKey returns the Redis key holding a location's lookup counter
func UsageKey(id string) string {
	return KeyPrefixUsage + id
}

// AllLocationsKey returns the key for the set of all location IDs
func AllLocationsKey() string {
	return KeyAllLocations
}
