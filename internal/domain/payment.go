package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment is a single attempt against the gateway. An order may
// accumulate several failed attempts; at most one ever succeeds.
type Payment struct {
	ID               uuid.UUID     `json:"id"`
	OrderID          uuid.UUID     `json:"order_id"`
	Reference        string        `json:"reference"`
	Amount           float64       `json:"amount"`
	Status           PaymentStatus `json:"status"`
	GatewayReference string        `json:"gateway_reference"`
	GatewayResponse  string        `json:"-"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
