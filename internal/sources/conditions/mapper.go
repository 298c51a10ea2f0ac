package conditions

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
)

// SourceName tags locations discovered from the conditions file
const SourceName = "conditions"

// Snapshot is the domain view of a conditions file
type Snapshot struct {
	Default   domain.Weather // zero when the file sets no default
	Locations []*domain.Location
}

// Mapper converts a conditions file to domain locations
type Mapper struct {
	log logger.Logger
}

// NewMapper creates a new mapper instance
func NewMapper(log logger.Logger) *Mapper {
	return &Mapper{log: log}
}

// Map converts File to a Snapshot.
// Entries without a name or with an unknown weather are skipped.
// A repeated name keeps its first entry.
func (m *Mapper) Map(file *File) (*Snapshot, error) {
	snap := &Snapshot{}

	if s := strings.TrimSpace(file.Default); s != "" {
		w, err := domain.ParseWeather(s)
		if err != nil {
			return nil, fmt.Errorf("invalid default weather: %w", err)
		}
		snap.Default = w
	}

	now := time.Now()
	seen := make(map[string]struct{}, len(file.Locations))

	for i, entry := range file.Locations {
		name := strings.TrimSpace(entry.Name)
		id := domain.LocationID(name)
		if id == "" {
			m.log.Warn("skipping location without name", logger.Int("entry", i))
			continue
		}

		w, err := domain.ParseWeather(entry.Weather)
		if err != nil {
			m.log.Warn("skipping location with invalid weather",
				logger.String("location", name),
				logger.Error(err))
			continue
		}

		if _, dup := seen[id]; dup {
			m.log.Warn("skipping duplicate location", logger.String("location", name))
			continue
		}
		seen[id] = struct{}{}

		snap.Locations = append(snap.Locations, &domain.Location{
			ID:         id,
			Name:       name,
			Weather:    w,
			Sources:    []string{SourceName},
			LastSeenAt: now,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	if len(snap.Locations) == 0 {
		return nil, fmt.Errorf("no valid locations found in conditions file")
	}

	return snap, nil
}
