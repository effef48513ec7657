package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/infrastructure/payment"
	"bookstore-api/internal/repo"

	"github.com/google/uuid"
)

type PaymentService interface {
	// Initiate starts a gateway transaction for an order still pending
	// payment. Nothing is persisted unless the gateway accepts the charge.
	Initiate(ctx context.Context, userID uuid.UUID, req InitiateRequest) (*InitiationResult, error)
	// Verify asks the gateway for the authoritative outcome of a payment
	// attempt and converges local state to it. Safe to call repeatedly.
	Verify(ctx context.Context, reference string) (*VerificationResult, error)
}

type InitiateRequest struct {
	OrderID     uuid.UUID
	Amount      float64
	Email       string
	CallbackURL string
}

type InitiationResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerificationResult struct {
	Status          domain.PaymentStatus `json:"status"`
	Amount          float64              `json:"amount"`
	Reference       string               `json:"reference"`
	GatewayResponse string               `json:"gateway_response"`
}

type paymentService struct {
	tx          repo.TxRunner
	orderRepo   repo.OrderRepo
	paymentRepo repo.PaymentRepo
	gateway     payment.Gateway
	callbackURL string
}

func NewPaymentService(
	tx repo.TxRunner,
	orderRepo repo.OrderRepo,
	paymentRepo repo.PaymentRepo,
	gateway payment.Gateway,
	callbackURL string,
) PaymentService {
	return &paymentService{
		tx:          tx,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		gateway:     gateway,
		callbackURL: callbackURL,
	}
}

// toMinorUnits converts a currency amount to the gateway's integer
// representation (kobo).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (s *paymentService) Initiate(ctx context.Context, userID uuid.UUID, req InitiateRequest) (*InitiationResult, error) {
	order, err := s.orderRepo.FindById(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, &domain.NotFoundError{Entity: "order", Ref: req.OrderID.String()}
	}
	if order.PaymentStatus == domain.PaymentSuccess {
		return nil, &domain.ValidationError{Msg: "order already paid"}
	}
	if req.Amount != order.TotalAmount {
		return nil, &domain.AmountMismatchError{Supplied: req.Amount, Total: order.TotalAmount}
	}

	callbackURL := req.CallbackURL
	if callbackURL == "" {
		callbackURL = s.callbackURL
	}

	reference := newReference("PAY")
	result, err := s.gateway.Initialize(ctx, payment.InitializeRequest{
		Email:       req.Email,
		AmountMinor: toMinorUnits(req.Amount),
		Reference:   reference,
		CallbackURL: callbackURL,
		OrderID:     order.ID,
		UserID:      order.UserID,
	})
	if err != nil {
		// No payment row: a rejected initiation leaves no trace.
		return nil, err
	}

	now := time.Now()
	p := &domain.Payment{
		ID:               uuid.New(),
		OrderID:          order.ID,
		Reference:        reference,
		Amount:           req.Amount,
		Status:           domain.PaymentPending,
		GatewayReference: result.Reference,
		GatewayResponse:  result.Raw,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		// ErrDuplicateReference is retryable: the caller may simply
		// initiate again with a fresh reference.
		return nil, err
	}

	return &InitiationResult{
		AuthorizationURL: result.AuthorizationURL,
		AccessCode:       result.AccessCode,
		Reference:        reference,
	}, nil
}

func (s *paymentService) Verify(ctx context.Context, reference string) (*VerificationResult, error) {
	p, err := s.paymentRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "payment", Ref: reference}
	}

	// A verification failure is not a payment failure: leave the payment
	// untouched so a later retry can still converge.
	result, err := s.gateway.Verify(ctx, p.GatewayReference)
	if err != nil {
		return nil, err
	}

	p.GatewayResponse = result.Raw
	err = s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		if result.Status == payment.TransactionSuccess {
			p.Status = domain.PaymentSuccess
			if err := s.paymentRepo.UpdateStatus(ctx, tx, p); err != nil {
				return err
			}
			// Sole transition of an order's payment_status to success.
			return s.orderRepo.MarkPaymentSucceeded(ctx, tx, p.OrderID, p.Reference)
		}
		// The order stays pending; a fresh payment attempt remains
		// possible indefinitely.
		p.Status = domain.PaymentFailed
		return s.paymentRepo.UpdateStatus(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	return &VerificationResult{
		Status:          p.Status,
		Amount:          p.Amount,
		Reference:       p.Reference,
		GatewayResponse: result.Raw,
	}, nil
}
