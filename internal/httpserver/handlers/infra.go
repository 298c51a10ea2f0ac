package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/deps"
	"github.com/MrSnakeDoc/rlfeatures/internal/httpserver/respond"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	LocationsLoaded *int   `json:"locations_loaded,omitempty"`
	LastReload      string `json:"last_reload,omitempty"`
	Source          string `json:"source,omitempty"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of each component and an overall mode:
// "critical" without locations, "degraded" without Redis, "optimal" otherwise.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count := d.Index.Count()
		lastReload := "never"
		if t := d.Index.GetLastReload(); !t.IsZero() {
			lastReload = t.Format(time.RFC3339)
		}

		host := d.Provider.HostName()
		endpoint := componentStatus{OK: !host.IsPlaceholder(), Mode: "configured"}
		if host.IsPlaceholder() {
			endpoint.Mode = "placeholder"
			endpoint.Impact = "records-carry-placeholder-endpoint"
		}

		components := map[string]componentStatus{
			"conditions": {
				OK:              count > 0,
				LocationsLoaded: &count,
				LastReload:      lastReload,
				Source:          d.ConditionsFile,
			},
			"redis":        checkRedis(r.Context(), d),
			"resolver":     {OK: true, Mode: "fuzzy+lookup-learning"},
			"personalizer": endpoint,
		}

		respond.JSON(w, http.StatusOK, infraResponse{
			Mode:       overallMode(components),
			Components: components,
		})
	}
}

func overallMode(components map[string]componentStatus) string {
	if c, ok := components["conditions"]; ok && !c.OK {
		return "critical"
	}
	if c, ok := components["redis"]; ok && !c.OK {
		return "degraded"
	}
	return "optimal"
}

func checkRedis(parent context.Context, d deps.Deps) componentStatus {
	degraded := componentStatus{
		Mode:   "degraded",
		Impact: "resolution-cache-disabled",
	}

	if d.RedisClient == nil {
		degraded.Error = "client not initialized"
		return degraded
	}

	ctx, cancel := context.WithTimeout(parent, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		degraded.Error = err.Error()
		return degraded
	}

	return componentStatus{OK: true, Mode: "optimal"}
}
