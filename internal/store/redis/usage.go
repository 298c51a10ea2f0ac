package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	usageFieldLookups  = "lookups"
	usageFieldLastSeen = "last_seen"
)

// IncrementLookups bumps the lookup counter of a location.
// Counters live in their own hash, apart from the location JSON, so a
// concurrent SaveLocation never loses increments.
func (s *Store) IncrementLookups(ctx context.Context, locationID string) error {
	key := UsageKey(locationID)

	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, usageFieldLookups, 1)
	pipe.HSet(ctx, key, usageFieldLastSeen, s.now().UnixNano())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to increment lookups for %s: %w", locationID, err)
	}
	return nil
}

// applyUsage overlays the persisted counters onto locations.
func (s *Store) applyUsage(ctx context.Context, locations []*domain.Location) error {
	if len(locations) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(locations))
	for i, loc := range locations {
		cmds[i] = pipe.HGetAll(ctx, UsageKey(loc.ID))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to get lookup counters: %w", err)
	}

	for i, cmd := range cmds {
		mergeUsage(locations[i], cmd.Val())
	}
	return nil
}

// mergeUsage keeps the highest counter and the latest sighting.
func mergeUsage(loc *domain.Location, fields map[string]string) {
	if n, err := strconv.ParseInt(fields[usageFieldLookups], 10, 64); err == nil && n > loc.Lookups {
		loc.Lookups = n
	}
	if ns, err := strconv.ParseInt(fields[usageFieldLastSeen], 10, 64); err == nil {
		if seen := time.Unix(0, ns); seen.After(loc.LastSeenAt) {
			loc.LastSeenAt = seen
		}
	}
}
