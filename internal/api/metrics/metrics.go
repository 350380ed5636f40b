// Package metrics defines and registers the custom Prometheus metrics for the
// clinic booking API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry via
// promauto at package load; the /metrics endpoint is wired in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// AppointmentsCreatedTotal counts successfully booked appointments.
var AppointmentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_created_total",
		Help:      "Total number of appointments successfully created.",
	},
)

// BookingConflictsTotal counts create attempts rejected by the double-booking
// window check.
var BookingConflictsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_conflicts_total",
		Help:      "Total number of appointment requests rejected because the doctor was already booked.",
	},
)

// EmailsSentTotal counts delivered notification emails.
// Label:
//   - subject: the email subject line (confirmation, update, cancellation, reminder, reset)
var EmailsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_sent_total",
		Help:      "Total number of notification emails delivered, by subject.",
	},
	[]string{"subject"},
)

// EmailsFailedTotal counts notification emails that failed delivery. Failures
// are never retried.
var EmailsFailedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_failed_total",
		Help:      "Total number of notification emails that failed to send.",
	},
)

// RemindersSentTotal counts reminder emails enqueued by the sweep.
var RemindersSentTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reminders_sent_total",
		Help:      "Total number of appointment reminder emails enqueued.",
	},
)

// ReminderSweepDuration measures how long one reminder sweep takes end-to-end.
var ReminderSweepDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reminder_sweep_duration_seconds",
		Help:      "Duration of a single reminder sweep over the lookahead window.",
		Buckets:   prometheus.DefBuckets,
	},
)
