// Package metrics defines and registers all custom Prometheus metrics for the
// telecrm API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "telecrm"

// CallsRecordedTotal counts recorded calls.
// Label:
//   - outcome: "connected" or "not_connected"
var CallsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "calls_recorded_total",
		Help:      "Total number of calls recorded, by outcome.",
	},
	[]string{"outcome"},
)

// LeadTransitionsTotal counts lead status transitions applied by the state machine.
// Labels:
//   - from: the status before the call (e.g. "new")
//   - to: the status after the call (e.g. "qualified")
var LeadTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lead_transitions_total",
		Help:      "Total number of lead status transitions driven by call outcomes.",
	},
	[]string{"from", "to"},
)

// LeadStatusUpdateErrorsTotal counts calls that were persisted but whose
// follow-up lead status update failed.
var LeadStatusUpdateErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lead_status_update_errors_total",
		Help:      "Total number of lead status updates that failed after the call was recorded.",
	},
)

// LeadsCreatedTotal counts newly created leads.
// Label:
//   - source: "website", "referral", "social", "direct" or "other"
var LeadsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leads_created_total",
		Help:      "Total number of leads created, by source.",
	},
	[]string{"source"},
)
