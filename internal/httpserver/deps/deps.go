package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/rlfeatures/internal/contextual"
	"github.com/MrSnakeDoc/rlfeatures/internal/index"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	AllowedHosts    []string             // Host headers allowed on public routes
	AllowedCIDRS    []string             // client IPs allowed on operational routes
	TrustProxy      bool                 // resolve client IPs from proxy headers
	RateLimitBurst  int                  // per-client burst on /api routes
	RateLimitPerMin int                  // per-client refill on /api routes
	ConditionsFile  string               // path of the conditions file, reported by /infra
	RedisClient     *redis.Client        // nil when Redis is unavailable
	Index           *index.LocationIndex // in-memory locations
	Provider        *contextual.Provider // builds feature records
	Gatherer        prometheus.Gatherer  // served on /metrics
	ReloadTrigger   chan struct{}        // manual conditions reload
}
