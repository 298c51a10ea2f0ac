package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultLocationTTL is the default TTL for location entries (48 hours)
const DefaultLocationTTL = 48 * time.Hour

// ErrLocationNotFound is returned when no location is stored under an ID.
var ErrLocationNotFound = errors.New("location not found")

// Store handles Redis operations for locations and the resolution cache
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, now: time.Now}
}

// SaveLocation stores a location and registers its ID
func (s *Store) SaveLocation(ctx context.Context, loc *domain.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, LocationKey(loc.ID), data, DefaultLocationTTL)
	pipe.SAdd(ctx, AllLocationsKey(), loc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save location %s: %w", loc.ID, err)
	}
	return nil
}

// GetLocation retrieves a location by ID
func (s *Store) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	data, err := s.client.Get(ctx, LocationKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, id)
		}
		return nil, fmt.Errorf("failed to get location: %w", err)
	}

	var loc domain.Location
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal location %s: %w", id, err)
	}
	if err := s.applyUsage(ctx, []*domain.Location{&loc}); err != nil {
		return nil, err
	}
	return &loc, nil
}

// GetAllLocations retrieves every registered location.
// IDs whose entry expired are pruned from the set.
func (s *Store) GetAllLocations(ctx context.Context) ([]*domain.Location, error) {
	ids, err := s.client.SMembers(ctx, AllLocationsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get location IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Location{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = LocationKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get locations: %w", err)
	}

	locations := make([]*domain.Location, 0, len(ids))
	var stale []interface{}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var loc domain.Location
		if err := json.Unmarshal([]byte(raw), &loc); err != nil {
			// Skip entries that no longer decode
			continue
		}
		locations = append(locations, &loc)
	}

	if len(stale) > 0 {
		usageKeys := make([]string, len(stale))
		for i, id := range stale {
			usageKeys[i] = UsageKey(id.(string))
		}
		pipe := s.client.TxPipeline()
		pipe.SRem(ctx, AllLocationsKey(), stale...)
		pipe.Del(ctx, usageKeys...)
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to prune expired location IDs: %w", err)
		}
	}

	if err := s.applyUsage(ctx, locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// DeleteLocation removes a location and its ID
func (s *Store) DeleteLocation(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, LocationKey(id), UsageKey(id))
	pipe.SRem(ctx, AllLocationsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete location %s: %w", id, err)
	}
	return nil
}

// SaveLocationsMany stores multiple locations (bulk operation)
func (s *Store) SaveLocationsMany(ctx context.Context, locations []*domain.Location) error {
	if len(locations) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, loc := range locations {
		data, err := json.Marshal(loc)
		if err != nil {
			return fmt.Errorf("failed to marshal location %s: %w", loc.ID, err)
		}
		pipe.Set(ctx, LocationKey(loc.ID), data, DefaultLocationTTL)
		pipe.SAdd(ctx, AllLocationsKey(), loc.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save locations: %w", err)
	}
	return nil
}
