package postgres

import (
	"time"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

type userModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Username     string `gorm:"size:25;uniqueIndex;not null"`
	Email        string `gorm:"size:80;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	IsStaff      bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type orderModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"size:36;index;not null"`
	Quantity  int    `gorm:"not null"`
	Size      string `gorm:"column:pizza_size;size:20;not null"`
	Flavour   string `gorm:"size:20;not null"`
	Status    string `gorm:"column:order_status;size:20;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (orderModel) TableName() string { return "orders" }

func (m *orderModel) toDomain() *domain.Order {
	return &domain.Order{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Quantity:  m.Quantity,
		Size:      domain.PizzaSize(m.Size),
		Flavour:   domain.Flavour(m.Flavour),
		Status:    domain.OrderStatus(m.Status),
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type orderEventModel struct {
	ID         uint   `gorm:"primaryKey"`
	OrderID    string `gorm:"size:36;index"`
	OwnerID    string `gorm:"size:36"`
	ActorID    string `gorm:"size:36"`
	Type       string `gorm:"size:32"`
	Status     string `gorm:"size:20"`
	OccurredAt time.Time
}

func (orderEventModel) TableName() string { return "order_events" }
