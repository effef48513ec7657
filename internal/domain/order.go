package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderCreated OrderStatus = "CREATED"
)

type Order struct {
	ID               uuid.UUID     `json:"id"`
	UserID           uuid.UUID     `json:"user_id"`
	TotalAmount      float64       `json:"total_amount"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentReference string        `json:"payment_reference"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem carries the unit price captured at order time, not the
// book's current price. Position preserves the request order of the
// lines within an order.
type OrderItem struct {
	ID       uuid.UUID `json:"id"`
	OrderID  uuid.UUID `json:"order_id"`
	BookID   uuid.UUID `json:"book_id"`
	Position int       `json:"position"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
}

// LineItem is a requested (book, quantity) pair before validation.
type LineItem struct {
	BookID   uuid.UUID `json:"book_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,min=1"`
}
