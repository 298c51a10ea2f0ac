package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Feature record sources
const (
	SourceExplicit = "explicit" // weather given by the caller
	SourceLocation = "location" // weather taken from a resolved location
	SourceDefault  = "default"  // configured default weather
)

// Resolution outcomes
const (
	ResolutionCacheHit = "cache_hit"
	ResolutionRanked   = "ranked"
	ResolutionNotFound = "not_found"
)

// Metrics groups the service collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	FeaturesServed *prometheus.CounterVec
	Resolutions    *prometheus.CounterVec
	Reloads        *prometheus.CounterVec
	ReloadDuration prometheus.Histogram
	Locations      prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FeaturesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rlfeatures_records_served_total",
			Help: "Feature records served, by weather source",
		}, []string{"source"}),

		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rlfeatures_location_resolutions_total",
			Help: "Location resolutions, by outcome",
		}, []string{"outcome"}),

		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rlfeatures_conditions_reloads_total",
			Help: "Conditions file reloads, by result",
		}, []string{"result"}),

		ReloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rlfeatures_conditions_reload_duration_seconds",
			Help:    "Duration of conditions file reloads",
			Buckets: prometheus.DefBuckets,
		}),

		Locations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rlfeatures_locations",
			Help: "Locations currently held in the index",
		}),
	}

	reg.MustRegister(m.FeaturesServed, m.Resolutions, m.Reloads, m.ReloadDuration, m.Locations)
	return m
}

// RecordServed counts a feature record built from source.
func (m *Metrics) RecordServed(source string) {
	if m == nil {
		return
	}
	m.FeaturesServed.WithLabelValues(source).Inc()
}

// RecordResolution counts a location resolution outcome.
func (m *Metrics) RecordResolution(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}

// RecordReload observes one reload.
func (m *Metrics) RecordReload(d time.Duration, locations int, err error) {
	if m == nil {
		return
	}
	m.ReloadDuration.Observe(d.Seconds())
	if err != nil {
		m.Reloads.WithLabelValues("failure").Inc()
		return
	}
	m.Reloads.WithLabelValues("success").Inc()
	m.Locations.Set(float64(locations))
}
