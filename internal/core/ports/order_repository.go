package ports

import (
	"context"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders. Each call is a
// single atomic change against the backing store.
type OrderRepository interface {
	// Create assigns the order's ID.
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// FindByID returns domain.ErrOrderNotFound when the id is unknown.
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	// Update persists the mutable fields; domain.ErrOrderNotFound if the order is gone.
	Update(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// Delete returns domain.ErrOrderNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
}

// AuditRepository stores the order audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.OrderEvent) error
}
