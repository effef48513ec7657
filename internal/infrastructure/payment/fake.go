package payment

import (
	"context"
	"fmt"
	"sync"

	"bookstore-api/internal/domain"
)

// Fake is an in-memory Gateway with scripted outcomes, used by service
// tests and local runs without a real Paystack account.
type Fake struct {
	mu sync.Mutex

	InitializeErr error
	VerifyErr     error

	// status reported by Verify for references initialized after the
	// last SetStatus call.
	nextStatus string
	statuses   map[string]string
	seq        int

	InitializeCalls []InitializeRequest
	VerifyCalls     []string
}

func NewFake() *Fake {
	return &Fake{
		nextStatus: TransactionSuccess,
		statuses:   make(map[string]string),
	}
}

// SetStatus scripts the verify outcome for transactions initialized from
// now on.
func (f *Fake) SetStatus(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextStatus = status
}

// ScriptStatus overrides the verify outcome for one gateway reference.
func (f *Fake) ScriptStatus(gatewayReference, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[gatewayReference] = status
}

func (f *Fake) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.InitializeCalls = append(f.InitializeCalls, req)
	if f.InitializeErr != nil {
		return nil, f.InitializeErr
	}

	f.seq++
	ref := fmt.Sprintf("FAKE_TXN_%d", f.seq)
	f.statuses[ref] = f.nextStatus

	return &InitializeResult{
		AuthorizationURL: "https://checkout.fake/" + ref,
		AccessCode:       "AC_" + ref,
		Reference:        ref,
		Raw:              fmt.Sprintf(`{"status":true,"data":{"reference":%q}}`, ref),
	}, nil
}

func (f *Fake) Verify(ctx context.Context, gatewayReference string) (*VerifyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.VerifyCalls = append(f.VerifyCalls, gatewayReference)
	if f.VerifyErr != nil {
		return nil, f.VerifyErr
	}

	status, ok := f.statuses[gatewayReference]
	if !ok {
		return nil, &domain.GatewayError{Message: "transaction not found"}
	}
	return &VerifyResult{
		Status: status,
		Raw:    fmt.Sprintf(`{"status":true,"data":{"status":%q}}`, status),
	}, nil
}
