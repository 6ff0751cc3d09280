// Package metrics provides Prometheus instrumentation for the profile editor.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks edits, contact submissions, and the initial data load.
// Each instance owns its registry, so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	EditsCommitted     *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	ContactSubmissions *prometheus.CounterVec
	Resets             prometheus.Counter
	HydrateMisses      prometheus.Counter
	FetchDuration      prometheus.Histogram
	ActiveSessions     prometheus.Gauge
}

// New creates a Metrics instance with all metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EditsCommitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_editor_edits_committed_total",
			Help: "Total number of list items saved, by list",
		}, []string{"list"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_editor_validation_failures_total",
			Help: "Total number of rejected edits and form submissions, by source",
		}, []string{"source"}),
		ContactSubmissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_editor_contact_submissions_total",
			Help: "Total number of contact form submissions, by outcome",
		}, []string{"outcome"}),
		Resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "profile_editor_resets_total",
			Help: "Total number of confirmed profile resets",
		}),
		HydrateMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "profile_editor_hydrate_misses_total",
			Help: "Total number of page loads that found no usable stored profile",
		}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "profile_editor_fetch_duration_seconds",
			Help:    "Duration of the simulated profile fetch",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 1.5, 2, 5},
		}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "profile_editor_active_sessions",
			Help: "Number of sessions with page state held in memory",
		}),
	}
}

// IncrementEdit records a committed list edit.
func (m *Metrics) IncrementEdit(list string) {
	m.EditsCommitted.WithLabelValues(list).Inc()
}

// IncrementValidationFailure records a rejected edit or submission.
func (m *Metrics) IncrementValidationFailure(source string) {
	m.ValidationFailures.WithLabelValues(source).Inc()
}

// IncrementContact records a contact submission outcome ("saved", "missing_fields", "invalid_email").
func (m *Metrics) IncrementContact(outcome string) {
	m.ContactSubmissions.WithLabelValues(outcome).Inc()
}

// IncrementReset records a confirmed reset.
func (m *Metrics) IncrementReset() {
	m.Resets.Inc()
}

// IncrementHydrateMiss records a page load that had to fetch defaults.
func (m *Metrics) IncrementHydrateMiss() {
	m.HydrateMisses.Inc()
}

// ObserveFetch records the duration of a simulated fetch.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveFetch(start time.Time) {
	m.FetchDuration.Observe(time.Since(start).Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
