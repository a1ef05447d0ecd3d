package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/policy"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

// IdempotencyStore remembers which order an owner's idempotency key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, ownerID, key string) (orderID string, found bool, err error)
	Remember(ctx context.Context, ownerID, key, orderID string) error
}

// EventPublisher receives an audit event after every successful mutation.
// Publish must not block.
type EventPublisher interface {
	Publish(event domain.OrderEvent)
}

type OrderService struct {
	orders ports.OrderRepository
	policy policy.Policy
	idem   IdempotencyStore
	events EventPublisher
	logger zerolog.Logger
}

// OrderOption wires optional collaborators into an OrderService.
type OrderOption func(*OrderService)

// WithIdempotency enables idempotent order placement.
func WithIdempotency(store IdempotencyStore) OrderOption {
	return func(s *OrderService) { s.idem = store }
}

// WithEventPublisher routes audit events to p.
func WithEventPublisher(p EventPublisher) OrderOption {
	return func(s *OrderService) { s.events = p }
}

func NewOrderService(orders ports.OrderRepository, pol policy.Policy, logger zerolog.Logger, opts ...OrderOption) *OrderService {
	s := &OrderService{orders: orders, policy: pol, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder creates an order owned by the caller.
func (s *OrderService) PlaceOrder(ctx context.Context, p domain.Principal, in ports.PlaceOrderInput) (*ports.PlaceOrderResult, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	spec, err := domain.NewOrderSpec(in.Quantity, in.Size, in.Flavour, in.Status)
	if err != nil {
		return nil, err
	}

	if existing := s.replay(ctx, p, in.IdempotencyKey); existing != nil {
		return &ports.PlaceOrderResult{Order: existing, AlreadyExisted: true}, nil
	}

	now := time.Now().UTC()
	order := &domain.Order{OwnerID: p.UserID, CreatedAt: now}
	order.Apply(spec, now)

	created, err := s.orders.Create(ctx, order)
	if err != nil {
		s.logger.Error().Err(err).Str("owner_id", p.UserID).Msg("failed to create order")
		return nil, fmt.Errorf("place order: %w", err)
	}

	if s.idem != nil && in.IdempotencyKey != "" {
		if err := s.idem.Remember(ctx, p.UserID, in.IdempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	s.publish(created, p, domain.EventOrderPlaced)
	s.logger.Info().Str("order_id", created.ID).Str("owner_id", p.UserID).Msg("order placed")
	return &ports.PlaceOrderResult{Order: created}, nil
}

// replay returns the order an idempotency key already produced, or nil.
func (s *OrderService) replay(ctx context.Context, p domain.Principal, key string) *domain.Order {
	if s.idem == nil || key == "" {
		return nil
	}
	orderID, found, err := s.idem.Lookup(ctx, p.UserID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, placing anyway")
		return nil
	}
	if !found {
		return nil
	}
	existing, err := s.orders.FindByID(ctx, orderID)
	if err != nil || existing.OwnerID != p.UserID {
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("order_id", existing.ID).Msg("idempotent replay")
	return existing
}

// ListAllOrders returns every order. Staff only.
func (s *OrderService) ListAllOrders(ctx context.Context, p domain.Principal) ([]*domain.Order, error) {
	if err := s.policy.Authorize(p, "", policy.ReadAny); err != nil {
		return nil, err
	}
	return s.orders.FindAll(ctx)
}

// GetOrder is the staff view of a single order.
func (s *OrderService) GetOrder(ctx context.Context, p domain.Principal, orderID string) (*domain.Order, error) {
	return s.load(ctx, p, orderID, policy.ReadAny)
}

// ListMyOrders returns the orders owned by the caller.
func (s *OrderService) ListMyOrders(ctx context.Context, p domain.Principal) ([]*domain.Order, error) {
	if err := s.policy.Authorize(p, "", policy.ReadOwn); err != nil {
		return nil, err
	}
	return s.orders.FindByOwner(ctx, p.UserID)
}

// GetMyOrder searches only the caller's orders, so an order owned by someone
// else is reported as not found.
func (s *OrderService) GetMyOrder(ctx context.Context, p domain.Principal, orderID string) (*domain.Order, error) {
	mine, err := s.ListMyOrders(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, o := range mine {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

// UpdateOrder replaces quantity, size, flavour and status.
func (s *OrderService) UpdateOrder(ctx context.Context, p domain.Principal, in ports.UpdateOrderInput) (*domain.Order, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	spec, err := domain.NewOrderSpec(in.Quantity, in.Size, in.Flavour, in.Status)
	if err != nil {
		return nil, err
	}

	order, err := s.load(ctx, p, in.OrderID, policy.WriteAny)
	if err != nil {
		return nil, err
	}
	order.Apply(spec, time.Now().UTC())

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	s.publish(updated, p, domain.EventOrderUpdated)
	return updated, nil
}

// UpdateOrderStatus replaces only the status. Staff only.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, p domain.Principal, orderID, status string) (*domain.Order, error) {
	if err := requireAuth(p); err != nil {
		return nil, err
	}
	next, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.load(ctx, p, orderID, policy.WriteStatusOnly)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	order.Status = next
	order.UpdatedAt = time.Now().UTC()

	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	s.publish(updated, p, domain.EventOrderStatusChanged)

	ev := s.logger.Info()
	if next.IsFinal() {
		ev = ev.Bool("final", true)
	}
	ev.Str("order_id", orderID).Str("from", string(previous)).Str("to", string(next)).Str("by", p.UserID).Msg("order status changed")
	return updated, nil
}

// DeleteOrder removes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, p domain.Principal, orderID string) error {
	order, err := s.load(ctx, p, orderID, policy.Delete)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, orderID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	s.publish(order, p, domain.EventOrderDeleted)
	s.logger.Info().Str("order_id", orderID).Str("by", p.UserID).Msg("order deleted")
	return nil
}

// load authorizes action and fetches the order. When the decision depends on
// the owner the order is fetched first, and a denial is reported as not found
// so the caller learns nothing about orders it cannot touch.
func (s *OrderService) load(ctx context.Context, p domain.Principal, orderID string, action policy.Action) (*domain.Order, error) {
	if !s.policy.NeedsOwner(action) {
		if err := s.policy.Authorize(p, "", action); err != nil {
			return nil, err
		}
		return s.orders.FindByID(ctx, orderID)
	}

	if err := requireAuth(p); err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(p, order.OwnerID, action); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) publish(o *domain.Order, p domain.Principal, typ domain.OrderEventType) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.OrderEvent{
		OrderID:    o.ID,
		OwnerID:    o.OwnerID,
		ActorID:    p.UserID,
		Type:       typ,
		Status:     o.Status,
		OccurredAt: time.Now().UTC(),
	})
}

func requireAuth(p domain.Principal) error {
	if !p.Authenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}
