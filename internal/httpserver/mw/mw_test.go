package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestMatchHost(t *testing.T) {
	tests := []struct {
		host    string
		pattern string
		want    bool
	}{
		{host: "api.example.com", pattern: "api.example.com", want: true},
		{host: "a.example.com", pattern: "*.example.com", want: true},
		{host: "example.com", pattern: "*.example.com", want: false},
		{host: "evil-example.com", pattern: "*.example.com", want: false},
		{host: "api.example.org", pattern: "api.example.com", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.host+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, matchHost(tt.host, tt.pattern))
		})
	}
}

func TestEnforceHost(t *testing.T) {
	h := EnforceHost([]string{"Features.Example.com"}, logger.NewNop())(okHandler)

	r := httptest.NewRequest(http.MethodGet, "/api/features", nil)
	r.Host = "features.example.com:8080"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r.Host = "other.example.com"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, w.Body.String())
}

func TestAllowOnlyCIDRS(t *testing.T) {
	h := AllowOnlyCIDRS([]string{"10.0.0.0/8"}, false, logger.NewNop())(okHandler)

	r := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	r.RemoteAddr = "10.2.3.4:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r.RemoteAddr = "8.8.8.8:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEmptyListsPassThrough(t *testing.T) {
	h := AllowOnlyCIDRS(nil, false, logger.NewNop())(EnforceHost(nil, logger.NewNop())(okHandler))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	h := RateLimit(RateLimitConfig{Burst: 2, RefillPerMin: 60, Now: clock})(okHandler)

	do := func(remoteAddr string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/features", nil)
		r.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, do("1.1.1.1:1").Code)
	w := do("1.1.1.1:2")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do("1.1.1.1:3")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, do("2.2.2.2:1").Code)

	// one token per second refills
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do("1.1.1.1:4").Code)
}

func TestLogRecordsStatus(t *testing.T) {
	h := Log(logger.NewNop(), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
