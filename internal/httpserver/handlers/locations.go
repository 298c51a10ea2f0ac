package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/respond"
)

type locationView struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Weather domain.Weather `json:"weather"`
	Lookups int64          `json:"lookups"`
}

type locationsResponse struct {
	DefaultWeather domain.Weather `json:"defaultWeather"`
	Locations      []locationView `json:"locations"`
}

// Locations lists the enabled locations and the default weather.
func Locations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := locationsResponse{
			DefaultWeather: d.Index.DefaultWeather(),
			Locations:      []locationView{},
		}
		for _, loc := range d.Index.GetAllLocations() {
			if loc.Disabled {
				continue
			}
			resp.Locations = append(resp.Locations, locationView{
				ID:      loc.ID,
				Name:    loc.Name,
				Weather: loc.Weather,
				Lookups: loc.Lookups,
			})
		}
		respond.JSON(w, http.StatusOK, resp)
	}
}
