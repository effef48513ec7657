package payment

import (
	"context"

	"github.com/google/uuid"
)

// Gateway is the narrow surface of the external payment provider. Tests
// substitute Fake; production wires the Paystack client.
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, gatewayReference string) (*VerifyResult, error)
}

type InitializeRequest struct {
	Email       string
	AmountMinor int64
	Reference   string
	CallbackURL string
	OrderID     uuid.UUID
	UserID      uuid.UUID
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	// Reference is the gateway-assigned transaction reference, distinct
	// from the locally generated one.
	Reference string
	Raw       string
}

type VerifyResult struct {
	Status string
	Raw    string
}

// TransactionSuccess is the status string the gateway reports for a
// completed charge. Anything else is a failed attempt.
const TransactionSuccess = "success"
