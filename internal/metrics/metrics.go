// Package metrics defines the Prometheus instrumentation for the dialog
// engine. Each Metrics value carries its own registry so tests and multiple
// engines never collide on registration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine counters.
type Metrics struct {
	Turns              prometheus.Counter
	NoMatches          prometheus.Counter
	ExtractionFailures prometheus.Counter
	Completions        prometheus.Counter

	registry *prometheus.Registry
}

// New creates a Metrics with a dedicated registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Turns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_turns_total",
			Help: "Total conversational turns handled.",
		}),
		NoMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_no_matches_total",
			Help: "Turns where the utterance matched no option or slot.",
		}),
		ExtractionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_extraction_failures_total",
			Help: "Slot extraction calls that failed or returned unparseable output.",
		}),
		Completions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "intake_completions_total",
			Help: "Workflows that reached a final result.",
		}),
		registry: reg,
	}

	reg.MustRegister(m.Turns, m.NoMatches, m.ExtractionFailures, m.Completions)
	return m
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
