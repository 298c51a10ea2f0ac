package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
)

// LocationIndex keeps the known locations in memory.
// It serves lookups when Redis is unavailable and is the source for ranking.
//
// Returned locations are copies; mutate through the index methods.
type LocationIndex struct {
	mu             sync.RWMutex
	locations      map[string]*domain.Location // ID -> Location
	defaultWeather domain.Weather
	lastReload     time.Time
}

// NewLocationIndex creates an empty index with the given default weather.
func NewLocationIndex(defaultWeather domain.Weather) *LocationIndex {
	return &LocationIndex{
		locations:      make(map[string]*domain.Location),
		defaultWeather: defaultWeather,
	}
}

// UpdateLocations replaces all locations in the index
func (idx *LocationIndex) UpdateLocations(locations []*domain.Location) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.locations = make(map[string]*domain.Location, len(locations))
	for _, loc := range locations {
		if loc == nil {
			continue
		}
		idx.locations[loc.ID] = cloneLocation(loc)
	}
	idx.lastReload = time.Now()
}

// GetLocation retrieves a location by ID
func (idx *LocationIndex) GetLocation(id string) (*domain.Location, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	loc, ok := idx.locations[id]
	if !ok {
		return nil, false
	}
	return cloneLocation(loc), true
}

// GetAllLocations returns all locations sorted by ID
func (idx *LocationIndex) GetAllLocations() []*domain.Location {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	locations := make([]*domain.Location, 0, len(idx.locations))
	for _, loc := range idx.locations {
		locations = append(locations, cloneLocation(loc))
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].ID < locations[j].ID })
	return locations
}

// DeleteLocation removes a location from the index
func (idx *LocationIndex) DeleteLocation(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.locations, id)
}

// Count returns the number of locations, disabled ones included
func (idx *LocationIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.locations)
}

// IncrementLookups bumps the lookup counter of a location
func (idx *LocationIndex) IncrementLookups(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if loc, ok := idx.locations[id]; ok {
		loc.Lookups++
		loc.LastSeenAt = time.Now()
	}
}

// GetLastReload returns the timestamp of the last UpdateLocations
func (idx *LocationIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// SetDefaultWeather replaces the weather used when no location applies.
// Invalid values are ignored.
func (idx *LocationIndex) SetDefaultWeather(w domain.Weather) {
	if !w.Valid() {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.defaultWeather = w
}

// DefaultWeather returns the weather used when no location applies
func (idx *LocationIndex) DefaultWeather() domain.Weather {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.defaultWeather
}

func cloneLocation(loc *domain.Location) *domain.Location {
	c := *loc
	c.Sources = append([]string(nil), loc.Sources...)
	return &c
}
