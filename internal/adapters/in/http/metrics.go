package http

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the business counters the API increments. Any field may be
// nil; missing counters are simply not recorded.
type Metrics struct {
	DeliveriesCreated   prometheus.Counter
	AssignmentWins      prometheus.Counter
	AssignmentConflicts prometheus.Counter
	IneligibleAccepts   prometheus.Counter
	Settlements         *prometheus.CounterVec
}

func inc(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}

func (m Metrics) settlement(outcome string) {
	if m.Settlements != nil {
		m.Settlements.WithLabelValues(outcome).Inc()
	}
}
