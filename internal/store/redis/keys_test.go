package redis

import "testing"

func TestLocationKeys(t *testing.T) {
	if got := LocationKey("new-york"); got != "rlf:location:new-york" {
		t.Errorf("LocationKey() = %q", got)
	}
	if got := UsageKey("new-york"); got != "rlf:usage:new-york" {
		t.Errorf("UsageKey() = %q", got)
	}
	if got := AllLocationsKey(); got != "rlf:locations:all" {
		t.Errorf("AllLocationsKey() = %q", got)
	}
	if got := CacheKey("  New York "); got != "rlf:cache:new york" {
		t.Errorf("CacheKey() = %q", got)
	}
}
