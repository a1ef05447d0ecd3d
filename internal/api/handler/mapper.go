package handler

import (
	"time"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsStaff:   u.IsStaff,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

func toOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		UserID:      o.OwnerID,
		Quantity:    o.Quantity,
		PizzaSize:   string(o.Size),
		Flavour:     string(o.Flavour),
		OrderStatus: string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}

func toOrderResponses(orders []*domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
