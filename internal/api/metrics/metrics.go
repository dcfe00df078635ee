// Package metrics defines and registers all custom Prometheus metrics for
// the attendance portal API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics use promauto, so importing the package registers them with the
// default Prometheus registry before the HTTP server starts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attendance"

// ── Roster metrics ────────────────────────────────────────────────────────────

// RosterRowsImportedTotal counts student rows written by roster uploads.
var RosterRowsImportedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_rows_imported_total",
		Help:      "Total number of student rows upserted from roster uploads.",
	},
)

// RosterRowsSkippedTotal counts upload rows dropped by validation (missing
// roll number).
var RosterRowsSkippedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_rows_skipped_total",
		Help:      "Total number of roster rows dropped for failing validation.",
	},
)

// RosterReassignedTotal counts students whose owning mentor changed because
// another mentor's upload claimed them.
var RosterReassignedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_reassigned_total",
		Help:      "Total number of students reassigned to a different mentor by an upload.",
	},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// MessagesSentTotal counts stored chat messages.
// Label:
//   - role: the sender's role ("mentor" or "parent")
var MessagesSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_sent_total",
		Help:      "Total number of chat messages stored, by sender role.",
	},
	[]string{"role"},
)

// ── Alert metrics ─────────────────────────────────────────────────────────────

// AlertsTriggeredTotal counts manual alert attempts.
// Label:
//   - result: "queued", "throttled", or "rejected"
var AlertsTriggeredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_triggered_total",
		Help:      "Total number of manual low-attendance alerts, by outcome.",
	},
	[]string{"result"},
)
