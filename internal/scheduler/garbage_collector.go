package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/index"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	redisstore "github.com/MrSnakeDoc/rlfeatures/internal/store/redis"
)

const (
	// DefaultGCThreshold is the duration after which disabled locations are deleted
	DefaultGCThreshold = 30 * 24 * time.Hour // 30 days
)

// GarbageCollector deletes locations that stayed disabled too long
type GarbageCollector struct {
	store     *redisstore.Store
	index     *index.LocationIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector.
// A zero threshold uses DefaultGCThreshold.
func NewGarbageCollector(
	store *redisstore.Store,
	idx *index.LocationIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold == 0 {
		threshold = DefaultGCThreshold
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start runs a collection immediately, then on every tick
func (gc *GarbageCollector) Start(ctx context.Context) {
	gc.Collect(ctx)

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes locations disabled for longer than the threshold.
// It returns the number of deleted locations.
func (gc *GarbageCollector) Collect(ctx context.Context) int {
	now := gc.now()
	deleted := 0

	for _, loc := range gc.index.GetAllLocations() {
		if !loc.Disabled || loc.UpdatedAt.IsZero() {
			continue
		}

		disabledFor := now.Sub(loc.UpdatedAt)
		if disabledFor < gc.threshold {
			continue
		}

		gc.index.DeleteLocation(loc.ID)

		if gc.store != nil {
			if err := gc.store.DeleteLocation(ctx, loc.ID); err != nil {
				gc.logger.Warn("failed to delete location from redis",
					logger.String("location_id", loc.ID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected disabled location",
			logger.String("location_id", loc.ID),
			logger.Int64("lookups", loc.Lookups),
			logger.Duration("disabled_for", disabledFor))

		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed", logger.Int("deleted", deleted))
	} else {
		gc.logger.Debug("no locations to garbage collect")
	}

	return deleted
}
