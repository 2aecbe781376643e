package signupsrv

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// Metrics counts stage transitions by stage and outcome.
type Metrics struct {
	transitions *prometheus.CounterVec
}

// NewMetrics registers the signup collectors on reg. A nil reg yields
// unregistered collectors, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "expense_tracker",
		Subsystem: "signup",
		Name:      "transitions_total",
		Help:      "Signup stage transitions by stage and outcome",
	}, []string{"stage", "outcome"})

	if reg != nil {
		if err := reg.Register(transitions); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
					transitions = existing
				}
			}
		}
	}
	return &Metrics{transitions: transitions}
}

func (m *Metrics) record(stage string, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	m.transitions.WithLabelValues(stage, outcome).Inc()
}

// Counter returns the counter for stage and outcome.
func (m *Metrics) Counter(stage, outcome string) prometheus.Counter {
	return m.transitions.WithLabelValues(stage, outcome)
}
