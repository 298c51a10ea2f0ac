package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client), mr
}

func location(id string, w domain.Weather) *domain.Location {
	return &domain.Location{ID: id, Name: id, Weather: w, Sources: []string{"conditions"}}
}

func TestSaveAndGetLocation(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocation(ctx, location("oslo", domain.Snowy)))

	got, err := store.GetLocation(ctx, "oslo")
	require.NoError(t, err)
	assert.Equal(t, domain.Snowy, got.Weather)
	assert.Equal(t, []string{"conditions"}, got.Sources)

	assert.Equal(t, DefaultLocationTTL, mr.TTL(LocationKey("oslo")))
	ok, err := mr.SIsMember(AllLocationsKey(), "oslo")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetLocationNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetLocation(context.Background(), "atlantis")
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestSaveLocationsMany(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocationsMany(ctx, nil))
	require.NoError(t, store.SaveLocationsMany(ctx, []*domain.Location{
		location("lima", domain.Sunny),
		location("oslo", domain.Snowy),
		location("seattle", domain.Rainy),
	}))

	all, err := store.GetAllLocations(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, loc := range all {
		ids = append(ids, loc.ID)
		assert.Equal(t, DefaultLocationTTL, mr.TTL(LocationKey(loc.ID)), loc.ID)
	}
	assert.ElementsMatch(t, []string{"lima", "oslo", "seattle"}, ids)
}

func TestGetAllLocationsPrunesExpired(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocation(ctx, location("lima", domain.Sunny)))
	require.NoError(t, store.IncrementLookups(ctx, "lima"))

	mr.FastForward(DefaultLocationTTL + time.Minute)
	require.NoError(t, store.SaveLocation(ctx, location("oslo", domain.Snowy)))

	all, err := store.GetAllLocations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "oslo", all[0].ID)

	members, err := mr.Members(AllLocationsKey())
	require.NoError(t, err)
	assert.Equal(t, []string{"oslo"}, members)
	assert.False(t, mr.Exists(UsageKey("lima")), "usage counter of an expired location should be pruned")
}

func TestGetAllLocationsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	all, err := store.GetAllLocations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteLocation(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocation(ctx, location("oslo", domain.Snowy)))
	require.NoError(t, store.IncrementLookups(ctx, "oslo"))
	require.NoError(t, store.DeleteLocation(ctx, "oslo"))

	assert.False(t, mr.Exists(LocationKey("oslo")))
	assert.False(t, mr.Exists(UsageKey("oslo")))
	_, err := store.GetLocation(ctx, "oslo")
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestIncrementLookupsConcurrent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	seen := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return seen }

	require.NoError(t, store.SaveLocation(ctx, location("oslo", domain.Snowy)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.IncrementLookups(ctx, "oslo"); err != nil {
				t.Errorf("IncrementLookups() error = %v", err)
			}
		}()
	}
	wg.Wait()

	// a save carrying a stale counter must not reset the persisted one
	require.NoError(t, store.SaveLocation(ctx, location("oslo", domain.Rainy)))

	got, err := store.GetLocation(ctx, "oslo")
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Lookups)
	assert.True(t, got.LastSeenAt.Equal(seen), "LastSeenAt = %v", got.LastSeenAt)
	assert.Equal(t, domain.Rainy, got.Weather)
}

func TestLocationCounterWinsWhenHigher(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	loc := location("oslo", domain.Snowy)
	loc.Lookups = 10
	require.NoError(t, store.SaveLocation(ctx, loc))
	require.NoError(t, store.IncrementLookups(ctx, "oslo"))

	got, err := store.GetLocation(ctx, "oslo")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Lookups)
}

func TestResolutionCache(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	id, err := store.GetCachedResolution(ctx, "new york")
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.CacheResolution(ctx, "  New York ", "new-york", time.Hour))

	id, err = store.GetCachedResolution(ctx, "new york")
	require.NoError(t, err)
	assert.Equal(t, "new-york", id)
	assert.Equal(t, time.Hour, mr.TTL(CacheKey("new york")))
}

func TestFlushCache(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveLocation(ctx, location("oslo", domain.Snowy)))
	for _, q := range []string{"oslo", "osl", "norway"} {
		require.NoError(t, store.CacheResolution(ctx, q, "oslo", time.Hour))
	}

	n, err := store.FlushCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	keys := mr.Keys()
	assert.ElementsMatch(t, []string{LocationKey("oslo"), AllLocationsKey()}, keys)

	n, err = store.FlushCache(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
