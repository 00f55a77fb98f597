package clarify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks clarification flow outcomes.
type Metrics struct {
	queriesTotal          *prometheus.CounterVec
	clarificationsRaised  prometheus.Counter
	clarificationsMerged  prometheus.Counter
	clarificationsExpired prometheus.Counter
	reasksTotal           prometheus.Counter
	detectorFailOpen      prometheus.Counter
}

// NewMetrics creates and registers clarification metrics on the given
// registerer. Pass prometheus.DefaultRegisterer in production and a fresh
// registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		queriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statuted",
			Subsystem: "clarify",
			Name:      "queries_total",
			Help:      "Resolve calls by outcome (answered, clarification, reask, error).",
		}, []string{"outcome"}),
		clarificationsRaised: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statuted",
			Subsystem: "clarify",
			Name:      "clarifications_raised_total",
			Help:      "Clarification counter-questions issued to users.",
		}),
		clarificationsMerged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statuted",
			Subsystem: "clarify",
			Name:      "clarifications_merged_total",
			Help:      "Clarification answers successfully merged into resolved questions.",
		}),
		clarificationsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statuted",
			Subsystem: "clarify",
			Name:      "clarifications_expired_total",
			Help:      "Pending clarifications discarded after the inactivity window.",
		}),
		reasksTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statuted",
			Subsystem: "clarify",
			Name:      "reasks_total",
			Help:      "Clarification questions re-issued after a non-resolving answer.",
		}),
		detectorFailOpen: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "statuted",
			Subsystem: "clarify",
			Name:      "detector_failopen_total",
			Help:      "Detector failures or timeouts that fell open to direct answering.",
		}),
	}
}

// The increment helpers are nil-safe so the Manager works without metrics
// attached.

func (m *Metrics) recordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.queriesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) incRaised() {
	if m == nil {
		return
	}
	m.clarificationsRaised.Inc()
}

func (m *Metrics) incMerged() {
	if m == nil {
		return
	}
	m.clarificationsMerged.Inc()
}

func (m *Metrics) incExpired() {
	if m == nil {
		return
	}
	m.clarificationsExpired.Inc()
}

func (m *Metrics) incReask() {
	if m == nil {
		return
	}
	m.reasksTotal.Inc()
}

func (m *Metrics) incFailOpen() {
	if m == nil {
		return
	}
	m.detectorFailOpen.Inc()
}
