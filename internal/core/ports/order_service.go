package ports

import (
	"context"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// PlaceOrderInput carries the raw order fields from the transport layer.
// Empty enumeration fields take their defaults.
type PlaceOrderInput struct {
	Quantity int
	Size     string
	Flavour  string
	Status   string
	// IdempotencyKey, when set, makes retries of the same placement return the first order.
	IdempotencyKey string
}

// UpdateOrderInput replaces every mutable field of an order.
type UpdateOrderInput struct {
	OrderID  string
	Quantity int
	Size     string
	Flavour  string
	Status   string
}

// PlaceOrderResult is returned by PlaceOrder.
type PlaceOrderResult struct {
	Order *domain.Order
	// AlreadyExisted is true when the idempotency key matched an earlier order.
	AlreadyExisted bool
}

// OrderService defines the order use cases. Every call is made on behalf of
// an authenticated principal.
type OrderService interface {
	PlaceOrder(ctx context.Context, p domain.Principal, input PlaceOrderInput) (*PlaceOrderResult, error)
	ListAllOrders(ctx context.Context, p domain.Principal) ([]*domain.Order, error)
	GetOrder(ctx context.Context, p domain.Principal, orderID string) (*domain.Order, error)
	ListMyOrders(ctx context.Context, p domain.Principal) ([]*domain.Order, error)
	GetMyOrder(ctx context.Context, p domain.Principal, orderID string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, p domain.Principal, input UpdateOrderInput) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, p domain.Principal, orderID, status string) (*domain.Order, error)
	DeleteOrder(ctx context.Context, p domain.Principal, orderID string) error
}
