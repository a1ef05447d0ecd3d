// Package memory provides mutex-guarded in-process repositories. It backs the
// "memory" storage driver and stands in for real storage in tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	stored := cloneUser(user)
	stored.ID = uuid.NewString()
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// OrderRepository implements ports.OrderRepository.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{orders: make(map[string]*domain.Order)}
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	return &c
}

func (r *OrderRepository) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneOrder(o)
	stored.ID = uuid.NewString()
	r.orders[stored.ID] = stored
	return cloneOrder(stored), nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *OrderRepository) FindByOwner(_ context.Context, ownerID string) ([]*domain.Order, error) {
	return r.list(func(o *domain.Order) bool { return o.OwnerID == ownerID }), nil
}

func (r *OrderRepository) FindAll(_ context.Context) ([]*domain.Order, error) {
	return r.list(func(*domain.Order) bool { return true }), nil
}

// list returns matching orders sorted by creation time, then id.
func (r *OrderRepository) list(match func(*domain.Order) bool) []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if match(o) {
			out = append(out, cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *OrderRepository) Update(_ context.Context, o *domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[o.ID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	updated := cloneOrder(o)
	updated.OwnerID = current.OwnerID
	updated.CreatedAt = current.CreatedAt
	r.orders[o.ID] = updated
	return cloneOrder(updated), nil
}

func (r *OrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

// AuditRepository implements ports.AuditRepository.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.OrderEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) InsertEvent(_ context.Context, e *domain.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

// Events returns a copy of the recorded trail.
func (r *AuditRepository) Events() []domain.OrderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.OrderEvent(nil), r.events...)
}
