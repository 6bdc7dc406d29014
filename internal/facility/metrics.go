// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Willowgate Contributors

package facility

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ActionsTotal is the counter for facility action executions.
// Use RegisterMetrics to register this with a Prometheus registry.
var ActionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "willowgate_facility_actions_total",
		Help: "Total number of facility action executions",
	},
	[]string{"facility", "action", "status"},
)

// ActionDuration is the histogram for facility action execution duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var ActionDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "willowgate_facility_action_duration_seconds",
		Help:    "Facility action execution duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"facility", "action"},
)

// GoldSpent is the counter for gold debited by facility actions.
// Use RegisterMetrics to register this with a Prometheus registry.
var GoldSpent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "willowgate_facility_gold_spent_total",
		Help: "Total gold debited from parties by facility actions",
	},
	[]string{"facility"},
)

// FacilityEntries is the counter for facility visits.
// Use RegisterMetrics to register this with a Prometheus registry.
var FacilityEntries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "willowgate_facility_entries_total",
		Help: "Total number of facility entries",
	},
	[]string{"facility"},
)

// RegisterMetrics registers facility package metrics with the given
// Prometheus registry. This must be called at startup to make metrics
// available on /metrics. Panics if registration fails (following prometheus
// convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ActionsTotal)
	reg.MustRegister(ActionDuration)
	reg.MustRegister(GoldSpent)
	reg.MustRegister(FacilityEntries)
}

// RecordAction increments the action counter. The status label is the
// result kind ("success", "error", "warning", "info", "confirm").
func RecordAction(facility ID, action ActionID, status Kind) {
	ActionsTotal.WithLabelValues(facility.String(), action.String(), status.String()).Inc()
}

// RecordActionDuration records how long an action execution took.
func RecordActionDuration(facility ID, action ActionID, duration time.Duration) {
	ActionDuration.WithLabelValues(facility.String(), action.String()).Observe(duration.Seconds())
}

// RecordGoldSpent records gold debited from the visiting party.
func RecordGoldSpent(facility ID, amount int) {
	if amount > 0 {
		GoldSpent.WithLabelValues(facility.String()).Add(float64(amount))
	}
}

// RecordEntry increments the facility entry counter.
func RecordEntry(facility ID) {
	FacilityEntries.WithLabelValues(facility.String()).Inc()
}
