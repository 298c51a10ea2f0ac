package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/mw"
)

func init() { Register(registerHealthz, registerOps) }

// healthz stays open for container probes
func registerHealthz(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))
}

func registerOps(r chi.Router, d deps.Deps) {
	r.Group(func(ops chi.Router) {
		ops.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		ops.Get("/readyz", handlers.Readyz(d))
		ops.Get("/infra", handlers.Infra(d))
		ops.Method("GET", "/metrics", handlers.Metrics(d))
		ops.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Post("/reload", handlers.Reload(d))
	})
}
