package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/rlfeatures/internal/contextual"
	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/respond"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
)

var validate = validator.New()

type featuresQuery struct {
	Weather  string `validate:"omitempty,max=16"`
	Day      string `validate:"omitempty,max=16"`
	Location string `validate:"omitempty,max=128"`
}

type featuresResponse struct {
	Weather         domain.Weather      `json:"weather"`
	DayOfWeek       domain.DayOfWeek    `json:"dayOfWeek"`
	HostName        domain.HostName     `json:"hostName"`
	ContextFeatures []map[string]string `json:"contextFeatures"`
	Source          string              `json:"source"`
	Location        string              `json:"location,omitempty"`
}

// Features returns the feature record for the request context.
//
//	GET /api/features?weather=Sunny&day=Monday
//	GET /api/features?location=seattle
//
// An explicit weather wins over location. Without day, today in the
// configured timezone is used.
func Features(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := featuresQuery{
			Weather:  strings.TrimSpace(r.URL.Query().Get("weather")),
			Day:      strings.TrimSpace(r.URL.Query().Get("day")),
			Location: strings.TrimSpace(r.URL.Query().Get("location")),
		}
		if err := validate.Struct(q); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid query parameters")
			return
		}

		req := contextual.Request{Location: q.Location}

		if q.Weather != "" {
			weather, err := domain.ParseWeather(q.Weather)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			req.Weather = weather
		}

		if q.Day != "" {
			day, err := domain.ParseDayOfWeek(q.Day)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			req.Day = &day
		}

		res, err := d.Provider.Features(r.Context(), req)
		switch {
		case errors.Is(err, contextual.ErrLocationNotFound):
			respond.Error(w, http.StatusNotFound, err.Error())
			return
		case errors.Is(err, domain.ErrInvalidWeather), errors.Is(err, domain.ErrInvalidDayOfWeek):
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			d.Logger.Error("failed to build feature record", logger.Error(err))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}

		f := res.Features
		resp := featuresResponse{
			Weather:         f.Weather(),
			DayOfWeek:       f.DayOfWeek(),
			HostName:        f.HostName(),
			ContextFeatures: f.ContextFeatures(),
			Source:          res.Source,
		}
		if res.Location != nil {
			resp.Location = res.Location.Name
		}

		respond.JSON(w, http.StatusOK, resp)
	}
}
