// Package contextual builds feature records from the current context:
// explicit values, a named location, the configured default weather and
// the local day of week.
package contextual

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/rlfeatures/internal/domain"
	"github.com/MrSnakeDoc/rlfeatures/internal/index"
	"github.com/MrSnakeDoc/rlfeatures/internal/logger"
	"github.com/MrSnakeDoc/rlfeatures/internal/metrics"
)

// ErrLocationNotFound is returned when a location query matches nothing.
var ErrLocationNotFound = errors.New("location not found")

// DefaultCacheTTL bounds how long a query -> location resolution is reused.
const DefaultCacheTTL = 24 * time.Hour

// ResolutionCache remembers query resolutions and lookup counters.
// Implemented by the Redis store.
type ResolutionCache interface {
	GetCachedResolution(ctx context.Context, query string) (string, error)
	CacheResolution(ctx context.Context, query, locationID string, ttl time.Duration) error
	IncrementLookups(ctx context.Context, locationID string) error
}

// Request describes the record to build.
type Request struct {
	Weather  domain.Weather    // zero: taken from Location, else the default weather
	Day      *domain.DayOfWeek // nil: today in the provider timezone
	Location string            // optional free-text location
}

// Result is a built record and where its weather came from.
type Result struct {
	Features domain.Features
	Source   string           // metrics.Source* value
	Location *domain.Location // set when Source is metrics.SourceLocation
}

// Provider builds feature records bound to one personalization endpoint.
type Provider struct {
	host          domain.HostName
	index         *index.LocationIndex
	cache         ResolutionCache
	metrics       *metrics.Metrics
	logger        logger.Logger
	tz            *time.Location
	now           func() time.Time
	maxCandidates int
}

// Option configures a Provider.
type Option func(*Provider)

// WithCache enables the resolution cache.
func WithCache(c ResolutionCache) Option {
	return func(p *Provider) { p.cache = c }
}

// WithMetrics records served records and resolutions.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithTimezone sets the zone used to derive the day of week. Default UTC.
func WithTimezone(tz *time.Location) Option {
	return func(p *Provider) {
		if tz != nil {
			p.tz = tz
		}
	}
}

// WithMaxCandidates bounds the ranked candidate list. Zero means no limit.
func WithMaxCandidates(n int) Option {
	return func(p *Provider) { p.maxCandidates = n }
}

// NewProvider creates a provider. The host name is checked once here so
// every record it builds carries a valid endpoint.
func NewProvider(host domain.HostName, idx *index.LocationIndex, log logger.Logger, opts ...Option) (*Provider, error) {
	h, err := domain.ParseHostName(string(host))
	if err != nil {
		return nil, err
	}

	p := &Provider{
		host:   h,
		index:  idx,
		logger: log,
		tz:     time.UTC,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// HostName returns the endpoint injected into every record.
func (p *Provider) HostName() domain.HostName {
	return p.host
}

// Today returns the current day of week in the provider timezone.
func (p *Provider) Today() domain.DayOfWeek {
	return domain.DayOfWeekFromTime(p.now().In(p.tz))
}

// Build creates a record from explicit values.
func (p *Provider) Build(weather domain.Weather, day domain.DayOfWeek) (domain.Features, error) {
	f, err := domain.NewFeatures(weather, day, domain.WithHostName(p.host))
	if err != nil {
		return domain.Features{}, err
	}
	p.metrics.RecordServed(metrics.SourceExplicit)
	return f, nil
}

// Current creates a record for today, with the weather of location.
// An empty location uses the default weather.
func (p *Provider) Current(ctx context.Context, location string) (*Result, error) {
	return p.Features(ctx, Request{Location: location})
}

// Features builds a record for req.
func (p *Provider) Features(ctx context.Context, req Request) (*Result, error) {
	day := p.Today()
	if req.Day != nil {
		day = *req.Day
	}

	res := &Result{}

	switch {
	case req.Weather != 0:
		res.Source = metrics.SourceExplicit
	case strings.TrimSpace(req.Location) != "":
		loc, err := p.Resolve(ctx, req.Location)
		if err != nil {
			return nil, err
		}
		req.Weather = loc.Weather
		res.Source = metrics.SourceLocation
		res.Location = loc
	default:
		req.Weather = p.index.DefaultWeather()
		res.Source = metrics.SourceDefault
	}

	f, err := domain.NewFeatures(req.Weather, day, domain.WithHostName(p.host))
	if err != nil {
		return nil, err
	}
	res.Features = f

	p.metrics.RecordServed(res.Source)
	return res, nil
}

// Candidates ranks known locations against query, best first,
// bounded by the configured maximum.
func (p *Provider) Candidates(query string) []*domain.Candidate {
	candidates := domain.RankLocations(domain.ParseQuery(query), p.index.GetAllLocations())
	if p.maxCandidates > 0 && len(candidates) > p.maxCandidates {
		candidates = candidates[:p.maxCandidates]
	}
	return candidates
}

// Resolve finds the location best matching query.
// Cached resolutions are tried first, then fuzzy ranking.
func (p *Provider) Resolve(ctx context.Context, query string) (*domain.Location, error) {
	query = strings.TrimSpace(query)

	if loc := p.cached(ctx, query); loc != nil {
		p.metrics.RecordResolution(metrics.ResolutionCacheHit)
		p.recordLookup(ctx, loc.ID)
		return loc, nil
	}

	candidates := p.Candidates(query)
	if len(candidates) == 0 {
		p.metrics.RecordResolution(metrics.ResolutionNotFound)
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, query)
	}

	best := candidates[0].Location
	p.logger.Debug("location resolved",
		logger.String("query", query),
		logger.String("location_id", best.ID),
		logger.Int("candidates", len(candidates)))

	if p.cache != nil {
		if err := p.cache.CacheResolution(ctx, query, best.ID, DefaultCacheTTL); err != nil {
			p.logger.Warn("failed to cache resolution", logger.String("query", query), logger.Error(err))
		}
	}

	p.metrics.RecordResolution(metrics.ResolutionRanked)
	p.recordLookup(ctx, best.ID)
	return best, nil
}

// cached returns the location cached for query, if it is still known and enabled.
func (p *Provider) cached(ctx context.Context, query string) *domain.Location {
	if p.cache == nil {
		return nil
	}

	id, err := p.cache.GetCachedResolution(ctx, query)
	if err != nil {
		p.logger.Warn("failed to read resolution cache", logger.String("query", query), logger.Error(err))
		return nil
	}
	if id == "" {
		return nil
	}

	loc, ok := p.index.GetLocation(id)
	if !ok || loc.Disabled {
		return nil
	}
	return loc
}

func (p *Provider) recordLookup(ctx context.Context, id string) {
	p.index.IncrementLookups(id)
	if p.cache == nil {
		return
	}
	if err := p.cache.IncrementLookups(ctx, id); err != nil {
		p.logger.Debug("failed to persist lookup", logger.String("location_id", id), logger.Error(err))
	}
}
