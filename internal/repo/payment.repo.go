package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookstore-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

type PaymentRepo interface {
	Create(ctx context.Context, payment *domain.Payment) error
	FindByReference(ctx context.Context, reference string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error
	FindPendingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error)
}

type paymentRepo struct {
	db *sql.DB
}

func NewPaymentRepo(db *sql.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, order_id, reference, amount, status, gateway_reference, gateway_response, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }, p *domain.Payment) error {
	return row.Scan(
		&p.ID,
		&p.OrderID,
		&p.Reference,
		&p.Amount,
		&p.Status,
		&p.GatewayReference,
		&p.GatewayResponse,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *paymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (id, order_id, reference, amount, status, gateway_reference, gateway_response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, payment.ID, payment.OrderID, payment.Reference, payment.Amount, payment.Status,
		payment.GatewayReference, payment.GatewayResponse, payment.CreatedAt, payment.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateReference
	}
	return err
}

func (r *paymentRepo) FindByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	var p domain.Payment
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE reference = $1`, reference)
	err := scanPayment(row, &p)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = $2,
		    gateway_response = $3,
		    updated_at = now()
		WHERE id = $1
	`, payment.ID, payment.Status, payment.GatewayResponse)
	return err
}

func (r *paymentRepo) FindPendingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+paymentColumns+` FROM payments
		WHERE status = $1
		AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`, domain.PaymentPending, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
