// Package metrics defines the Prometheus instruments of the dispatch
// engine. Constructors return unregistered collectors; the composition root
// registers them and hands them to the components that increment them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewDeliveriesCreatedTotal returns a counter for deliveries accepted into
// the marketplace.
func NewDeliveriesCreatedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deliveries_created_total",
		Help: "Total number of deliveries created",
	})
}

// NewAssignmentWinsTotal returns a counter for acceptance attempts that won
// the dispatch race.
func NewAssignmentWinsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_wins_total",
		Help: "Total number of courier acceptance attempts that won the offer",
	})
}

// NewAssignmentConflictsTotal returns a counter for acceptance attempts that
// lost the race to another courier.
func NewAssignmentConflictsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_conflicts_total",
		Help: "Total number of courier acceptance attempts rejected because the delivery was already assigned",
	})
}

// NewIneligibleAcceptsTotal returns a counter for acceptance attempts by
// couriers that were not eligible for the delivery.
func NewIneligibleAcceptsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ineligible_accepts_total",
		Help: "Total number of courier acceptance attempts rejected for courier ineligibility",
	})
}

// NewSettlementsTotal returns a counter vector for settlement outcomes,
// labelled by outcome: settled, declined, conflict or error.
func NewSettlementsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlements_total",
		Help: "Total number of settlement attempts by outcome",
	}, []string{"outcome"})
}

// NewBroadcastEventsTotal returns a counter for events published on the
// broadcast channel.
func NewBroadcastEventsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "broadcast_events_total",
		Help: "Total number of events published on the broadcast channel",
	})
}

// NewDroppedSubscriberSendsTotal returns a counter for events dropped on
// slow broadcast subscribers.
func NewDroppedSubscriberSendsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dropped_subscriber_sends_total",
		Help: "Total number of broadcast events dropped because a subscriber was too slow",
	})
}

// NewRoutingFallbacksTotal returns a counter for routing calls answered by
// the synthetic fallback after a service failure.
func NewRoutingFallbacksTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routing_fallbacks_total",
		Help: "Total number of routing requests served by the degraded synthetic fallback",
	})
}
