package domain

import "time"

// OrderEventType names the kind of change recorded in the audit trail.
type OrderEventType string

const (
	EventOrderPlaced        OrderEventType = "placed"
	EventOrderUpdated       OrderEventType = "updated"
	EventOrderStatusChanged OrderEventType = "status_changed"
	EventOrderDeleted       OrderEventType = "deleted"
)

// OrderEvent is an audit record of a successful order mutation.
type OrderEvent struct {
	OrderID    string
	OwnerID    string
	ActorID    string
	Type       OrderEventType
	Status     OrderStatus
	OccurredAt time.Time
}
