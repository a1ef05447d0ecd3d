package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m := userModel{
		ID:           uuid.NewString(),
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: username or email already exists", domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, arg string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return m.toDomain(), nil
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	m := orderModel{
		ID:        uuid.NewString(),
		OwnerID:   o.OwnerID,
		Quantity:  o.Quantity,
		Size:      string(o.Size),
		Flavour:   string(o.Flavour),
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	var m orderModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return m.toDomain(), nil
}

func (r *OrderRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Order, error) {
	return r.list(r.db.WithContext(ctx).Where("owner_id = ?", ownerID))
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *OrderRepository) list(q *gorm.DB) ([]*domain.Order, error) {
	var rows []orderModel
	if err := q.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// Update writes the mutable columns only; owner_id and created_at stay put.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	res := r.db.WithContext(ctx).Model(&orderModel{}).Where("id = ?", o.ID).Updates(map[string]any{
		"quantity":     o.Quantity,
		"pizza_size":   string(o.Size),
		"flavour":      string(o.Flavour),
		"order_status": string(o.Status),
		"updated_at":   o.UpdatedAt,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrOrderNotFound
	}
	return r.FindByID(ctx, o.ID)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&orderModel{})
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e *domain.OrderEvent) error {
	return r.db.WithContext(ctx).Create(&orderEventModel{
		OrderID:    e.OrderID,
		OwnerID:    e.OwnerID,
		ActorID:    e.ActorID,
		Type:       string(e.Type),
		Status:     string(e.Status),
		OccurredAt: e.OccurredAt,
	}).Error
}
