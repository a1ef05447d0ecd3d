package domain

import (
	"fmt"
	"time"
)

// PizzaSize is the size of the pizzas in an order.
type PizzaSize string

const (
	SizeSmall  PizzaSize = "SMALL"
	SizeMedium PizzaSize = "MEDIUM"
	SizeLarge  PizzaSize = "LARGE"
)

// Flavour is the pizza flavour of an order.
type Flavour string

const (
	FlavourPepperoni  Flavour = "PEPPERONI"
	FlavourCheese     Flavour = "CHEESE"
	FlavourMargherita Flavour = "MARGHERITA"
	FlavourHawaiian   Flavour = "HAWAIIAN"
	FlavourVegetarian Flavour = "VEGETARIAN"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusInTransit  OrderStatus = "IN_TRANSIT"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

const (
	DefaultSize    = SizeSmall
	DefaultFlavour = FlavourPepperoni
	DefaultStatus  = StatusPending
)

var (
	sizes    = []PizzaSize{SizeSmall, SizeMedium, SizeLarge}
	flavours = []Flavour{FlavourPepperoni, FlavourCheese, FlavourMargherita, FlavourHawaiian, FlavourVegetarian}
	statuses = []OrderStatus{StatusPending, StatusProcessing, StatusInTransit, StatusDelivered, StatusCancelled}
)

// ParseSize returns DefaultSize for an empty value and fails for anything
// outside the enumeration. Matching is exact.
func ParseSize(s string) (PizzaSize, error) {
	if s == "" {
		return DefaultSize, nil
	}
	for _, v := range sizes {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown pizza size %q", ErrInvalidInput, s)
}

// ParseFlavour returns DefaultFlavour for an empty value.
func ParseFlavour(s string) (Flavour, error) {
	if s == "" {
		return DefaultFlavour, nil
	}
	for _, v := range flavours {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown flavour %q", ErrInvalidInput, s)
}

// ParseStatus returns DefaultStatus for an empty value.
func ParseStatus(s string) (OrderStatus, error) {
	if s == "" {
		return DefaultStatus, nil
	}
	for _, v := range statuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidInput, s)
}

// IsFinal reports whether no further progress is expected for the order.
func (s OrderStatus) IsFinal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Order is the core aggregate root. OwnerID is set once at creation.
type Order struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"user_id"`
	Quantity  int         `json:"quantity"`
	Size      PizzaSize   `json:"pizza_size"`
	Flavour   Flavour     `json:"flavour"`
	Status    OrderStatus `json:"order_status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderSpec holds the mutable fields of an order after validation.
type OrderSpec struct {
	Quantity int
	Size     PizzaSize
	Flavour  Flavour
	Status   OrderStatus
}

// NewOrderSpec validates raw field values, applying defaults for empty
// enumeration fields.
func NewOrderSpec(quantity int, size, flavour, status string) (OrderSpec, error) {
	if quantity <= 0 {
		return OrderSpec{}, fmt.Errorf("%w: quantity must be a positive integer", ErrInvalidInput)
	}
	sz, err := ParseSize(size)
	if err != nil {
		return OrderSpec{}, err
	}
	fl, err := ParseFlavour(flavour)
	if err != nil {
		return OrderSpec{}, err
	}
	st, err := ParseStatus(status)
	if err != nil {
		return OrderSpec{}, err
	}
	return OrderSpec{Quantity: quantity, Size: sz, Flavour: fl, Status: st}, nil
}

// Apply replaces the order's mutable fields. Ownership is untouched.
func (o *Order) Apply(spec OrderSpec, at time.Time) {
	o.Quantity = spec.Quantity
	o.Size = spec.Size
	o.Flavour = spec.Flavour
	o.Status = spec.Status
	o.UpdatedAt = at
}
