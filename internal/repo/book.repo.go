package repo

import (
	"context"
	"database/sql"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
)

type BookRepo interface {
	FindById(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ListActive(ctx context.Context) ([]domain.Book, error)
	// DecrementStock applies a single conditional update guarded by
	// stock_quantity >= quantity. It returns false when the guard fails,
	// so concurrent orders can never jointly oversell a book. available
	// is the stock seen under the transaction: what remains after a
	// successful decrement, or the quantity that blocked a failed one.
	DecrementStock(ctx context.Context, tx *sql.Tx, id uuid.UUID, quantity int) (ok bool, available int, err error)
}

type bookRepo struct {
	db *sql.DB
}

func NewBookRepo(db *sql.DB) BookRepo {
	return &bookRepo{db: db}
}

const bookColumns = `id, title, author, price, stock_quantity, is_active, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }, b *domain.Book) error {
	return row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.Price,
		&b.StockQuantity,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

func (r *bookRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	var b domain.Book
	row := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	err := scanBook(row, &b)
	if err == sql.ErrNoRows {
		return nil, nil // not found
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepo) ListActive(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books WHERE is_active ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *bookRepo) DecrementStock(ctx context.Context, tx *sql.Tx, id uuid.UUID, quantity int) (bool, int, error) {
	var remaining int
	err := tx.QueryRowContext(ctx, `
		UPDATE books
		SET stock_quantity = stock_quantity - $2,
		    updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING stock_quantity
	`, id, quantity).Scan(&remaining)
	if err == nil {
		return true, remaining, nil
	}
	if err != sql.ErrNoRows {
		return false, 0, err
	}

	// Guard failed: report the stock a concurrent order left behind.
	var available int
	err = tx.QueryRowContext(ctx, `SELECT stock_quantity FROM books WHERE id = $1`, id).Scan(&available)
	if err != nil && err != sql.ErrNoRows {
		return false, 0, err
	}
	return false, available, nil
}
