package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repo"
	"bookstore-api/internal/service"
)

// ReconciliationWorker periodically re-verifies payments stuck in pending
// longer than staleAge. Verification is idempotent and leaves state
// untouched on gateway errors, so a sweep can never make things worse.
type ReconciliationWorker struct {
	paymentRepo repo.PaymentRepo
	payments    service.PaymentService
	interval    time.Duration
	staleAge    time.Duration
	batch       int
}

func NewReconciliationWorker(
	paymentRepo repo.PaymentRepo,
	payments service.PaymentService,
	interval, staleAge time.Duration,
	batch int,
) *ReconciliationWorker {
	return &ReconciliationWorker{
		paymentRepo: paymentRepo,
		payments:    payments,
		interval:    interval,
		staleAge:    staleAge,
		batch:       batch,
	}
}

func (rw *ReconciliationWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(rw.interval)
	defer ticker.Stop()

	log.Println("Reconciliation worker started")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rw.process(ctx); err != nil {
				log.Printf("Reconciliation failed: %v", err)
			}
		}
	}
}

func (rw *ReconciliationWorker) process(ctx context.Context) error {
	stale, err := rw.paymentRepo.FindPendingBefore(ctx, time.Now().Add(-rw.staleAge), rw.batch)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	log.Printf("Found %d stale pending payments", len(stale))

	for _, p := range stale {
		result, err := rw.payments.Verify(ctx, p.Reference)
		if err != nil {
			var gwErr *domain.GatewayError
			if errors.As(err, &gwErr) {
				// Gateway unreachable or still undecided; next sweep
				// will retry.
				log.Printf("Verify %s deferred: %v", p.Reference, err)
				continue
			}
			return err
		}
		log.Printf("Payment %s reconciled to %s", p.Reference, result.Status)
	}
	return nil
}
