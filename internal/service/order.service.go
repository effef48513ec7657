package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repo"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type OrderService interface {
	// CreateOrder validates the requested items in request order, snapshots
	// unit prices, and persists the order, its items, and the stock
	// decrements in one transaction. Any failure rolls everything back.
	CreateOrder(ctx context.Context, userID uuid.UUID, items []domain.LineItem) (*domain.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error)
}

type orderService struct {
	tx        repo.TxRunner
	orderRepo repo.OrderRepo
	bookRepo  repo.BookRepo
	rdb       *redis.Client
}

// NewOrderService wires the assembler. rdb may be nil; it is only used to
// invalidate cached book reads after stock changes.
func NewOrderService(tx repo.TxRunner, orderRepo repo.OrderRepo, bookRepo repo.BookRepo, rdb *redis.Client) OrderService {
	return &orderService{
		tx:        tx,
		orderRepo: orderRepo,
		bookRepo:  bookRepo,
		rdb:       rdb,
	}
}

// newReference builds a local reference: fixed prefix plus a 10-character
// uppercase hex suffix. Collisions are negligible but not impossible, so
// the unique index stays the last line of defense.
func newReference(prefix string) string {
	u := uuid.New()
	return prefix + "_" + strings.ToUpper(hex.EncodeToString(u[:])[:10])
}

func (s *orderService) CreateOrder(ctx context.Context, userID uuid.UUID, items []domain.LineItem) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Msg: "order must contain at least one item"}
	}

	// Validate in request order so the error always names the first
	// failing line. Duplicate book ids are processed as separate lines.
	var totalAmount float64
	books := make([]*domain.Book, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 {
			return nil, &domain.ValidationError{Msg: fmt.Sprintf("quantity must be at least 1 for book %s", it.BookID)}
		}
		book, err := s.bookRepo.FindById(ctx, it.BookID)
		if err != nil {
			return nil, err
		}
		if book == nil || !book.IsActive {
			return nil, &domain.NotFoundError{Entity: "book", Ref: it.BookID.String()}
		}
		if book.StockQuantity < it.Quantity {
			return nil, &domain.InsufficientStockError{
				BookID:    book.ID,
				Title:     book.Title,
				Requested: it.Quantity,
				Available: book.StockQuantity,
			}
		}
		totalAmount += book.Price * float64(it.Quantity)
		books = append(books, book)
	}

	now := time.Now()
	order := &domain.Order{
		ID:               uuid.New(),
		UserID:           userID,
		TotalAmount:      totalAmount,
		Status:           domain.OrderCreated,
		PaymentStatus:    domain.PaymentPending,
		PaymentReference: newReference("ORD"),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.tx.RunInTx(ctx, func(tx *sql.Tx) error {
		if err := s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
			return err
		}

		for i, it := range items {
			item := &domain.OrderItem{
				ID:       uuid.New(),
				OrderID:  order.ID,
				BookID:   it.BookID,
				Position: i,
				Quantity: it.Quantity,
				Price:    books[i].Price, // price at order time
			}
			if err := s.orderRepo.CreateItem(ctx, tx, item); err != nil {
				return err
			}

			// Conditional decrement: the guard re-checks stock under the
			// transaction, so two concurrent orders cannot jointly
			// oversell.
			ok, available, err := s.bookRepo.DecrementStock(ctx, tx, it.BookID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return &domain.InsufficientStockError{
					BookID:    books[i].ID,
					Title:     books[i].Title,
					Requested: it.Quantity,
					Available: available,
				}
			}
			order.Items = append(order.Items, *item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBookCache(ctx, items)
	return order, nil
}

func (s *orderService) invalidateBookCache(ctx context.Context, items []domain.LineItem) {
	if s.rdb == nil {
		return
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if seen[it.BookID] {
			continue
		}
		seen[it.BookID] = true
		s.rdb.Del(ctx, bookCacheKey(it.BookID))
	}
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindById(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, &domain.NotFoundError{Entity: "order", Ref: orderID.String()}
	}

	items, err := s.orderRepo.FindItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	return s.orderRepo.FindByUser(ctx, userID)
}
