// Package metrics exposes the pipeline's prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one pipeline instance. Collectors are
// registered on a private registry so tests can run many instances without
// duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	LinesDelivered  prometheus.Counter
	DecodeErrors    prometheus.Counter
	EventsStored    prometheus.Counter
	InvalidEvents   prometheus.Counter
	EventsByCat     *prometheus.CounterVec
	EventsEvicted   prometheus.Counter
	BufferOccupancy prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LinesDelivered: factory.NewCounter(prometheus.CounterOpts{
			Name: "starlog_journal_lines_total",
			Help: "Journal lines decoded and delivered to the pipeline.",
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "starlog_journal_decode_errors_total",
			Help: "Journal lines skipped because they failed to decode.",
		}),
		EventsStored: factory.NewCounter(prometheus.CounterOpts{
			Name: "starlog_events_stored_total",
			Help: "Events ingested into the store.",
		}),
		InvalidEvents: factory.NewCounter(prometheus.CounterOpts{
			Name: "starlog_events_invalid_total",
			Help: "Events that failed validation and were typed Unknown.",
		}),
		EventsByCat: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "starlog_events_by_category_total",
			Help: "Events ingested, labelled by category.",
		}, []string{"category"}),
		EventsEvicted: factory.NewCounter(prometheus.CounterOpts{
			Name: "starlog_events_evicted_total",
			Help: "Events evicted from the ring buffer at capacity.",
		}),
		BufferOccupancy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "starlog_buffer_occupancy",
			Help: "Current number of events held in the ring buffer.",
		}),
	}
}

// Registry returns the private registry for the HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
