package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/MrSnakeDoc/rlfeatures/internal/index"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	redisstore "github.com/MrSnakeDoc/rlfeatures/internal/store/redis"
)

func newTestStore(t *testing.T) (*redisstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisstore.NewStore(client), mr
}

func TestRedisSyncer_Sync(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.SaveLocationsMany(ctx, []*domain.Location{
		{ID: "seattle", Name: "Seattle", Weather: domain.Rainy, Sources: []string{"conditions"}},
		{ID: "lima", Name: "Lima", Weather: domain.Sunny, Sources: []string{"conditions"}, Disabled: true},
	})
	if err != nil {
		t.Fatalf("SaveLocationsMany() error = %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := store.IncrementLookups(ctx, "seattle"); err != nil {
			t.Fatalf("IncrementLookups() error = %v", err)
		}
	}

	idx := index.NewLocationIndex(domain.Sunny)
	if err := NewRedisSyncer(store, idx, logger.NewNop()).Sync(ctx); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if idx.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", idx.Count())
	}
	seattle, _ := idx.GetLocation("seattle")
	if seattle.Lookups != 3 || seattle.Weather != domain.Rainy {
		t.Errorf("seattle = %+v, want Rainy with 3 lookups", seattle)
	}
	lima, _ := idx.GetLocation("lima")
	if !lima.Disabled {
		t.Error("disabled state should survive the sync")
	}
}

func TestRedisSyncer_EmptyRedisKeepsIndex(t *testing.T) {
	store, _ := newTestStore(t)

	idx := index.NewLocationIndex(domain.Sunny)
	idx.UpdateLocations([]*domain.Location{{ID: "oslo", Name: "Oslo", Weather: domain.Snowy}})

	if err := NewRedisSyncer(store, idx, logger.NewNop()).Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if _, ok := idx.GetLocation("oslo"); !ok {
		t.Error("empty redis should leave the index untouched")
	}
}

func TestRedisSyncer_Unavailable(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Close()

	idx := index.NewLocationIndex(domain.Sunny)
	if err := NewRedisSyncer(store, idx, logger.NewNop()).Sync(context.Background()); err == nil {
		t.Error("Sync() should fail when redis is down")
	}
}

func TestConditionsReloader_PersistsToRedis(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.CacheResolution(ctx, "seatle", "seattle", time.Hour); err != nil {
		t.Fatalf("CacheResolution() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "conditions.yaml")
	writeConditions(t, path, `locations:
  - name: Seattle
    weather: Rainy
`)

	idx := index.NewLocationIndex(domain.Sunny)
	reloader := NewConditionsReloader(path, store, idx, nil, logger.NewNop(), time.Hour, make(chan struct{}, 1))
	if err := reloader.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if !mr.Exists(redisstore.LocationKey("seattle")) {
		t.Error("reloaded location should be saved to redis")
	}
	if mr.Exists(redisstore.CacheKey("seatle")) {
		t.Error("resolution cache should be flushed after a reload")
	}
}

func TestGarbageCollector_DeletesFromRedis(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	old := &domain.Location{
		ID:        "old-disabled",
		Name:      "Old Disabled",
		Weather:   domain.Snowy,
		Disabled:  true,
		UpdatedAt: time.Now().Add(-40 * 24 * time.Hour),
	}
	if err := store.SaveLocation(ctx, old); err != nil {
		t.Fatalf("SaveLocation() error = %v", err)
	}

	idx := index.NewLocationIndex(domain.Sunny)
	idx.UpdateLocations([]*domain.Location{old})

	gc := NewGarbageCollector(store, idx, logger.NewNop(), time.Hour, 30*24*time.Hour)
	if deleted := gc.Collect(ctx); deleted != 1 {
		t.Fatalf("Collect() deleted %d, want 1", deleted)
	}
	if mr.Exists(redisstore.LocationKey("old-disabled")) {
		t.Error("collected location should be removed from redis")
	}
}
