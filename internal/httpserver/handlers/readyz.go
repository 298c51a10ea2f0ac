package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/respond"
)

type readyzResponse struct {
	Ready     bool `json:"ready"`
	Locations int  `json:"locations"`
}

// Readyz is ready once at least one location is loaded.
// Records can still be built without locations, but location queries would all 404.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := d.Index.Count()
		status := http.StatusOK
		if n == 0 {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(w, status, readyzResponse{Ready: n > 0, Locations: n})
	}
}
