// Package metrics holds the custom Prometheus collectors of the pizza API.
// HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pizza"

// OrdersPlacedTotal counts newly created orders by size and flavour.
var OrdersPlacedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed, by pizza size and flavour.",
	},
	[]string{"size", "flavour"},
)

// OrderStatusChangesTotal counts status writes by resulting status.
var OrderStatusChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_status_changes_total",
		Help:      "Total number of order status updates, by new status.",
	},
	[]string{"status"},
)

// IdempotentReplaysTotal counts placements answered from a stored Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_idempotent_replays_total",
		Help:      "Total number of order placements replayed from an idempotency key.",
	},
)

// LoginsTotal counts login attempts.
// Label result: "success" or "failure".
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuditEventsTotal counts audit events leaving the dispatcher.
// Label outcome: "stored", "failed" or "dropped".
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of order audit events, by outcome.",
	},
	[]string{"outcome"},
)

// AuditQueueDepth tracks pending events per dispatcher worker.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditWriteDuration measures one audit insert.
var AuditWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "audit_write_duration_seconds",
		Help:      "Duration of a single audit event write.",
		Buckets:   prometheus.DefBuckets,
	},
)
