package repo

import (
	"context"
	"database/sql"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
)

type OrderRepo interface {
	FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
	FindItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error)
	CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error
	CreateItem(ctx context.Context, tx *sql.Tx, item *domain.OrderItem) error
	// MarkPaymentSucceeded is the only mutation of an order after creation.
	MarkPaymentSucceeded(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, reference string) error
}

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepo {
	return &orderRepo{db: db}
}

const orderColumns = `id, user_id, total_amount, status, payment_status, payment_reference, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }, o *domain.Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentReference,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func (r *orderRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var order domain.Order
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	err := scanOrder(row, &order)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *orderRepo) FindItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, book_id, position, quantity, price FROM order_items WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.BookID, &it.Position, &it.Quantity, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total_amount, status, payment_status, payment_reference, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, order.ID, order.UserID, order.TotalAmount, order.Status, order.PaymentStatus, order.PaymentReference, order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *orderRepo) CreateItem(ctx context.Context, tx *sql.Tx, item *domain.OrderItem) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO order_items (id, order_id, book_id, position, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.OrderID, item.BookID, item.Position, item.Quantity, item.Price)
	return err
}

func (r *orderRepo) MarkPaymentSucceeded(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, reference string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $2,
		    payment_reference = $3,
		    updated_at = now()
		WHERE id = $1
	`, orderID, domain.PaymentSuccess, reference)
	return err
}
