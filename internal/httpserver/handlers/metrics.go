package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
)

// Metrics exposes the Prometheus collectors.
func Metrics(d deps.Deps) http.Handler {
	return promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})
}
