package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/MrSnakeDoc/rlfeatures/internal/index"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	"github.com/MrSnakeDoc/rlfeatures/internal/metrics"
	"github.com/MrSnakeDoc/rlfeatures/internal/sources/conditions"
	redisstore "github.com/MrSnakeDoc/rlfeatures/internal/store/redis"
)

// ConditionsReloader keeps the location index in sync with conditions.yaml
type ConditionsReloader struct {
	loader        *conditions.Loader
	mapper        *conditions.Mapper
	store         *redisstore.Store
	index         *index.LocationIndex
	metrics       *metrics.Metrics
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewConditionsReloader creates a new conditions reloader.
// store and m may be nil.
func NewConditionsReloader(
	conditionsFile string,
	store *redisstore.Store,
	idx *index.LocationIndex,
	m *metrics.Metrics,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *ConditionsReloader {
	return &ConditionsReloader{
		loader:        conditions.NewLoader(conditionsFile, log),
		mapper:        conditions.NewMapper(log),
		store:         store,
		index:         idx,
		metrics:       m,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the file once, then reloads on every tick or manual trigger
func (cr *ConditionsReloader) Start(ctx context.Context) error {
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cr.reloadAndLog(ctx)
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				cr.reloadAndLog(ctx)
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *ConditionsReloader) Stop() {
	close(cr.stopCh)
}

func (cr *ConditionsReloader) reloadAndLog(ctx context.Context) {
	if err := cr.Reload(ctx); err != nil {
		cr.logger.Error("failed to reload conditions", logger.Error(err))
	}
}

// Reload reads the conditions file and updates index and store.
// Locations missing from the file are kept but disabled.
// On failure the index is left untouched.
func (cr *ConditionsReloader) Reload(ctx context.Context) error {
	start := time.Now()
	cr.logger.Info("reloading conditions", logger.String("file", cr.loader.Path()))

	locations, err := cr.reload(ctx)
	cr.metrics.RecordReload(time.Since(start), len(locations), err)
	return err
}

func (cr *ConditionsReloader) reload(ctx context.Context) ([]*domain.Location, error) {
	file, err := cr.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load conditions: %w", err)
	}

	snap, err := cr.mapper.Map(file)
	if err != nil {
		return nil, fmt.Errorf("failed to map conditions: %w", err)
	}

	cr.logger.Info("loaded locations from conditions file",
		logger.Int("count", len(snap.Locations)))

	merged, disabled := mergeLocations(cr.index.GetAllLocations(), snap.Locations, time.Now())
	if disabled > 0 {
		cr.logger.Info("marking removed locations as disabled",
			logger.Int("count", disabled))
	}

	cr.index.UpdateLocations(merged)
	if snap.Default.Valid() {
		cr.index.SetDefaultWeather(snap.Default)
	}

	// Redis is best effort; the memory index is the primary source
	if cr.store != nil {
		if err := cr.store.SaveLocationsMany(ctx, merged); err != nil {
			cr.logger.Warn("failed to save locations to redis", logger.Error(err))
		} else if n, err := cr.store.FlushCache(ctx); err != nil {
			cr.logger.Warn("failed to flush resolution cache", logger.Error(err))
		} else {
			cr.logger.Debug("locations saved to redis", logger.Int("cache_flushed", n))
		}
	}

	return merged, nil
}

// mergeLocations combines the freshly loaded locations with the known ones.
// Lookup counters and creation dates survive a reload. Known locations
// from the conditions source that disappeared are returned disabled;
// their UpdatedAt marks the moment they were first disabled.
func mergeLocations(existing, loaded []*domain.Location, now time.Time) ([]*domain.Location, int) {
	known := make(map[string]*domain.Location, len(existing))
	for _, loc := range existing {
		known[loc.ID] = loc
	}

	merged := make([]*domain.Location, 0, len(loaded)+len(existing))
	present := make(map[string]struct{}, len(loaded))

	for _, loc := range loaded {
		present[loc.ID] = struct{}{}
		if prev, ok := known[loc.ID]; ok {
			loc.Lookups = prev.Lookups
			if !prev.CreatedAt.IsZero() {
				loc.CreatedAt = prev.CreatedAt
			}
			if prev.Weather == loc.Weather && !prev.Disabled {
				loc.UpdatedAt = prev.UpdatedAt
			}
		}
		merged = append(merged, loc)
	}

	disabled := 0
	for _, prev := range existing {
		if _, ok := present[prev.ID]; ok || !prev.HasSource(conditions.SourceName) {
			continue
		}
		if !prev.Disabled {
			prev.Disabled = true
			prev.UpdatedAt = now
			disabled++
		}
		merged = append(merged, prev)
	}

	return merged, disabled
}
