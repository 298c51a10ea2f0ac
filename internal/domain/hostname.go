package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// HostName is the address of the personalization service that consumes
// feature records.
type HostName string

// PlaceholderHostName stands in until a real endpoint is configured.
const PlaceholderHostName HostName = "<Personalizer Azure Service Endpoint>"

// ParseHostName accepts the placeholder verbatim or an absolute http(s) URL.
// The returned value is normalized (lowercase scheme and host).
func ParseHostName(raw string) (HostName, error) {
	raw = strings.TrimSpace(raw)
	if raw == string(PlaceholderHostName) {
		return PlaceholderHostName, nil
	}
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidHostName)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidHostName, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "https" && scheme != "http" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidHostName, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidHostName, raw)
	}
	// Records echo the host name verbatim: no embedded credentials.
	if u.User != nil {
		return "", fmt.Errorf("%w: credentials are not allowed in the endpoint", ErrInvalidHostName)
	}

	u.Scheme = scheme
	u.Host = strings.ToLower(u.Host)
	return HostName(u.String()), nil
}

// IsPlaceholder reports whether h still points at the placeholder.
func (h HostName) IsPlaceholder() bool {
	return h == PlaceholderHostName
}

func (h HostName) String() string { return string(h) }
