package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Turns by route: "collection" or "query"
	TurnsTotal *prometheus.CounterVec

	// Collection workflow outcomes: prompted, retry, resolved, no_match, restarted
	WorkflowOutcomes *prometheus.CounterVec

	// Number of records matched per confirmed search
	MatchCount prometheus.Histogram

	// Recognized intents, including unmapped ones
	IntentsTotal *prometheus.CounterVec

	// Upstream call latency by upstream and result category
	UpstreamLatency *prometheus.HistogramVec
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TurnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "patientbot_turns_total",
			Help: "Total conversational turns handled by route",
		}, []string{"route"}),

		WorkflowOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "patientbot_workflow_outcomes_total",
			Help: "Profile collection step outcomes",
		}, []string{"outcome"}),

		MatchCount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "patientbot_record_matches",
			Help:    "Number of records matched per confirmed profile search",
			Buckets: []float64{0, 1, 2, 5, 10},
		}),

		IntentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "patientbot_intents_total",
			Help: "Recognized intents for resolved profiles",
		}, []string{"intent"}),

		UpstreamLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "patientbot_upstream_duration_seconds",
			Help:    "Duration of upstream calls by upstream and result",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"upstream", "result"}),
	}
}

// IncrementTurn records a handled turn.
func (m *Metrics) IncrementTurn(route string) {
	if m != nil {
		m.TurnsTotal.WithLabelValues(route).Inc()
	}
}

// IncrementOutcome records a workflow outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.WorkflowOutcomes.WithLabelValues(outcome).Inc()
	}
}

// ObserveMatches records how many records a confirmed search matched.
func (m *Metrics) ObserveMatches(n int) {
	if m != nil {
		m.MatchCount.Observe(float64(n))
	}
}

// IncrementIntent records a recognized intent.
func (m *Metrics) IncrementIntent(intent string) {
	if m != nil {
		m.IntentsTotal.WithLabelValues(intent).Inc()
	}
}

// ObserveUpstream records the duration of an upstream call.
func (m *Metrics) ObserveUpstream(upstream, result string, d time.Duration) {
	if m != nil {
		m.UpstreamLatency.WithLabelValues(upstream, result).Observe(d.Seconds())
	}
}
