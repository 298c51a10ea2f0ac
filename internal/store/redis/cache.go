package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheResolution stores a query -> location ID resolution
func (s *Store) CacheResolution(ctx context.Context, query, locationID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CacheKey(query), locationID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache resolution: %w", err)
	}
	return nil
}

// GetCachedResolution returns the cached location ID for a query.
// A cache miss returns an empty ID and no error.
func (s *Store) GetCachedResolution(ctx context.Context, query string) (string, error) {
	id, err := s.client.Get(ctx, CacheKey(query)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached resolution: %w", err)
	}
	return id, nil
}

// FlushCache removes all cached resolutions.
// Called after a reload since location names may have changed.
func (s *Store) FlushCache(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete cache key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush cache: %w", err)
	}
	return deleted, nil
}
