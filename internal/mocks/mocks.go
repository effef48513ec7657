package mocks

import (
	"context"
	"database/sql"
	"time"

	"bookstore-api/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookRepo) ListActive(ctx context.Context) ([]domain.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Book), args.Error(1)
}

func (m *MockBookRepo) DecrementStock(ctx context.Context, tx *sql.Tx, id uuid.UUID, quantity int) (bool, int, error) {
	args := m.Called(ctx, tx, id, quantity)
	return args.Bool(0), args.Int(1), args.Error(2)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) FindById(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepo) FindItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderItem), args.Error(1)
}

func (m *MockOrderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, order *domain.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) CreateItem(ctx context.Context, tx *sql.Tx, item *domain.OrderItem) error {
	args := m.Called(ctx, tx, item)
	return args.Error(0)
}

func (m *MockOrderRepo) MarkPaymentSucceeded(ctx context.Context, tx *sql.Tx, orderID uuid.UUID, reference string) error {
	args := m.Called(ctx, tx, orderID, reference)
	return args.Error(0)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) FindByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, tx *sql.Tx, payment *domain.Payment) error {
	args := m.Called(ctx, tx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) FindPendingBefore(ctx context.Context, before time.Time, limit int) ([]domain.Payment, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

// StubTxRunner runs the function directly with a nil tx. The mocked repos
// never touch the tx, so this stands in for a real transaction in unit
// tests.
type StubTxRunner struct {
	BeginErr error
}

func (s *StubTxRunner) RunInTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if s.BeginErr != nil {
		return s.BeginErr
	}
	return fn(nil)
}
