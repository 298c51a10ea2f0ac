package mw

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/respond"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	"github.com/MrSnakeDoc/rlfeatures/internal/utils"
)

func passthrough(next http.Handler) http.Handler { return next }

// AllowOnlyCIDRS rejects clients outside the allowed IPs/CIDRs with 403.
// An empty list disables the check.
// trustProxy resolves the client from proxy headers (see utils.ClientIP).
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	m := utils.NewIPMatcher(allowed)
	if m.IsEmpty() {
		return passthrough
	}

	log.Debug("client IP filter enabled",
		logger.Int("rules", m.Len()),
		logger.Bool("trust_proxy", trustProxy))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := utils.ClientIP(r, trustProxy)
			if !m.Allow(ip) {
				log.Warn("client IP rejected",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				respond.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnforceHost rejects requests whose Host header matches none of allowedHosts.
// Patterns may be exact ("api.example.com") or wildcards ("*.example.com").
// The port of the Host header is ignored. An empty list disables the check.
func EnforceHost(allowedHosts []string, log logger.Logger) func(http.Handler) http.Handler {
	if len(allowedHosts) == 0 {
		return passthrough
	}

	patterns := make([]string, 0, len(allowedHosts))
	for _, h := range allowedHosts {
		patterns = append(patterns, strings.ToLower(strings.TrimSpace(h)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host := strings.ToLower(utils.ParseHostNoPort(r.Host))
			for _, pattern := range patterns {
				if matchHost(host, pattern) {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Warn("host rejected", logger.String("host", r.Host))
			respond.Error(w, http.StatusForbidden, "forbidden")
		})
	}
}

// matchHost reports whether host matches pattern.
// "*.example.com" matches "a.example.com" but not "example.com".
func matchHost(host, pattern string) bool {
	if host == pattern {
		return true
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok && strings.HasPrefix(suffix, ".") {
		return strings.HasSuffix(host, suffix) && len(host) > len(suffix)
	}
	return false
}
