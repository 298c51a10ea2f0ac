package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/respond"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
)

type reloadResponse struct {
	Status string `json:"status"`
}

// Reload asks the conditions reloader for an immediate reload.
// It answers 429 while a previous request is still pending.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual conditions reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			respond.JSON(w, http.StatusAccepted, reloadResponse{Status: "reload triggered"})
		default:
			d.Logger.Warn("conditions reload already pending",
				logger.String("remote_ip", r.RemoteAddr))
			respond.JSON(w, http.StatusTooManyRequests, reloadResponse{Status: "reload already pending"})
		}
	}
}
