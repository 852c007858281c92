// Package observability counts what happens to messages during a run and
// exports the counts in the Prometheus text format.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/affanshahid/finny/pkg/matcher"
)

// Metrics holds the counters of one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// MessagesTotal tracks resolved messages by outcome
	MessagesTotal *prometheus.CounterVec
	// MatcherHitsTotal tracks matched messages by matcher
	MatcherHitsTotal *prometheus.CounterVec
	// ParseDuration tracks how long a ParseAll call takes
	ParseDuration prometheus.Histogram
}

// NewMetrics registers the finny metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finny_messages_total",
				Help: "Total number of messages resolved, by outcome",
			},
			[]string{"outcome"},
		),
		MatcherHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finny_matcher_hits_total",
				Help: "Total number of messages that produced a record, by matcher",
			},
			[]string{"matcher"},
		),
		ParseDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finny_parse_duration_seconds",
				Help:    "Time spent resolving a batch of messages",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// Observe implements matcher.Observer.
func (m *Metrics) Observe(outcome matcher.Outcome, matcherID string) {
	m.MessagesTotal.WithLabelValues(string(outcome)).Inc()
	if outcome == matcher.OutcomeMatched {
		m.MatcherHitsTotal.WithLabelValues(matcherID).Inc()
	}
}

// Time records the time since start as a parse duration.
func (m *Metrics) Time(start time.Time) {
	m.ParseDuration.Observe(time.Since(start).Seconds())
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the metrics to path in the text exposition format,
// for collection by node_exporter's textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
