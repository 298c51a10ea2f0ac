package scheduler

import (
	"context"

	"github.com/MrSnakeDoc/rlfeatures/internal/index"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	redisstore "github.com/MrSnakeDoc/rlfeatures/internal/store/redis"
)

// RedisSyncer warms the memory index from Redis on startup,
// so lookup counters and disabled locations survive restarts.
type RedisSyncer struct {
	store  *redisstore.Store
	index  *index.LocationIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store *redisstore.Store,
	idx *index.LocationIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads locations from Redis into the memory index.
// An empty Redis leaves the index untouched.
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("syncing locations from redis to memory")

	locations, err := rs.store.GetAllLocations(ctx)
	if err != nil {
		return err
	}

	if len(locations) == 0 {
		rs.logger.Info("no locations found in redis")
		return nil
	}

	rs.index.UpdateLocations(locations)

	rs.logger.Info("synced locations from redis",
		logger.Int("count", len(locations)))

	return nil
}
