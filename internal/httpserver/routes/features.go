package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(api chi.Router) {
		api.Use(
			mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
			mw.EnforceHost(d.AllowedHosts, d.Logger),
			mw.RateLimit(mw.RateLimitConfig{
				Burst:        d.RateLimitBurst,
				RefillPerMin: d.RateLimitPerMin,
				MaxEntries:   10000,
				TrustProxy:   d.TrustProxy,
			}),
		)
		api.Get("/features", handlers.Features(d))
		api.Get("/locations", handlers.Locations(d))
	})
}
