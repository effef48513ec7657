package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/infrastructure/payment"
	"bookstore-api/internal/mocks"
	"bookstore-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubHealth struct{}

func (stubHealth) DB() *sql.DB { return nil }

func (stubHealth) Health() map[string]string {
	return map[string]string{"status": "up"}
}

func (stubHealth) Close() error { return nil }

type fixture struct {
	router      *gin.Engine
	bookRepo    *mocks.MockBookRepo
	orderRepo   *mocks.MockOrderRepo
	paymentRepo *mocks.MockPaymentRepo
	gateway     *payment.Fake
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{
		bookRepo:    new(mocks.MockBookRepo),
		orderRepo:   new(mocks.MockOrderRepo),
		paymentRepo: new(mocks.MockPaymentRepo),
		gateway:     payment.NewFake(),
	}

	tx := &mocks.StubTxRunner{}
	catalog := service.NewCatalogService(f.bookRepo, nil, time.Minute)
	orders := service.NewOrderService(tx, f.orderRepo, f.bookRepo, nil)
	payments := service.NewPaymentService(tx, f.orderRepo, f.paymentRepo, f.gateway, "http://localhost/payments/callback")

	f.router = gin.New()
	registerRoutes(f.router, NewHandler(catalog, orders, payments, stubHealth{}))
	return f
}

func (f *fixture) do(method, path, userID, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)
	w := f.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"up"`)
}

func TestGetBook(t *testing.T) {
	f := newFixture(t)

	t.Run("invalid id is a 400", func(t *testing.T) {
		w := f.do(http.MethodGet, "/books/not-a-uuid", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown book is a 404", func(t *testing.T) {
		id := uuid.New()
		f.bookRepo.On("FindById", mock.Anything, id).Return(nil, nil).Once()
		w := f.do(http.MethodGet, "/books/"+id.String(), "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("active book round-trips", func(t *testing.T) {
		book := &domain.Book{ID: uuid.New(), Title: "Dune", Author: "Frank Herbert", Price: 15.99, StockQuantity: 3, IsActive: true}
		f.bookRepo.On("FindById", mock.Anything, book.ID).Return(book, nil).Once()

		w := f.do(http.MethodGet, "/books/"+book.ID.String(), "", "")
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Book
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, 3, got.StockQuantity)
	})
}

func TestCreateOrderEndpoint(t *testing.T) {
	userID := uuid.New()

	t.Run("missing user header is a 401", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/orders", "", `{"items":[]}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/orders", userID.String(), `{"items": "nope"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("insufficient stock is a 400 with detail", func(t *testing.T) {
		f := newFixture(t)
		book := &domain.Book{ID: uuid.New(), Title: "Dune", Price: 15.99, StockQuantity: 1, IsActive: true}
		f.bookRepo.On("FindById", mock.Anything, book.ID).Return(book, nil).Once()

		w := f.do(http.MethodPost, "/orders", userID.String(),
			`{"items":[{"book_id":"`+book.ID.String()+`","quantity":2}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Dune")
	})

	t.Run("valid order is a 201", func(t *testing.T) {
		f := newFixture(t)
		book := &domain.Book{ID: uuid.New(), Title: "Dune", Price: 15.99, StockQuantity: 5, IsActive: true}
		f.bookRepo.On("FindById", mock.Anything, book.ID).Return(book, nil).Once()
		f.bookRepo.On("DecrementStock", mock.Anything, mock.Anything, book.ID, 2).Return(true, 3, nil).Once()
		f.orderRepo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		f.orderRepo.On("CreateItem", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		w := f.do(http.MethodPost, "/orders", userID.String(),
			`{"items":[{"book_id":"`+book.ID.String()+`","quantity":2}]}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var got domain.Order
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, userID, got.UserID)
		assert.InDelta(t, 31.98, got.TotalAmount, 1e-9)
		assert.True(t, strings.HasPrefix(got.PaymentReference, "ORD_"))
	})
}

func TestPaymentEndpoints(t *testing.T) {
	userID := uuid.New()

	t.Run("initiate validates the body", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/payments/initiate", userID.String(),
			`{"order_id":"`+uuid.NewString()+`","amount":10,"email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("zero amount binds and pays a zero-total order", func(t *testing.T) {
		f := newFixture(t)
		order := &domain.Order{ID: uuid.New(), UserID: userID, TotalAmount: 0, PaymentStatus: domain.PaymentPending}
		f.orderRepo.On("FindById", mock.Anything, order.ID).Return(order, nil).Once()
		f.paymentRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		w := f.do(http.MethodPost, "/payments/initiate", userID.String(),
			`{"order_id":"`+order.ID.String()+`","amount":0,"email":"a@b.com"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing amount is a 400", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/payments/initiate", userID.String(),
			`{"order_id":"`+uuid.NewString()+`","email":"a@b.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("initiate for someone else's order is a 404", func(t *testing.T) {
		f := newFixture(t)
		order := &domain.Order{ID: uuid.New(), UserID: uuid.New(), TotalAmount: 10, PaymentStatus: domain.PaymentPending}
		f.orderRepo.On("FindById", mock.Anything, order.ID).Return(order, nil).Once()

		w := f.do(http.MethodPost, "/payments/initiate", userID.String(),
			`{"order_id":"`+order.ID.String()+`","amount":10,"email":"a@b.com"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("gateway failure is a 502", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.InitializeErr = &domain.GatewayError{Message: "provider unreachable"}
		order := &domain.Order{ID: uuid.New(), UserID: userID, TotalAmount: 10, PaymentStatus: domain.PaymentPending}
		f.orderRepo.On("FindById", mock.Anything, order.ID).Return(order, nil).Once()

		w := f.do(http.MethodPost, "/payments/initiate", userID.String(),
			`{"order_id":"`+order.ID.String()+`","amount":10,"email":"a@b.com"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "provider unreachable")
	})

	t.Run("verify requires a reference", func(t *testing.T) {
		f := newFixture(t)
		w := f.do(http.MethodPost, "/payments/verify", "", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("callback verifies by query parameter", func(t *testing.T) {
		f := newFixture(t)
		f.paymentRepo.On("FindByReference", mock.Anything, "PAY_MISSING123").Return(nil, nil).Once()
		w := f.do(http.MethodGet, "/payments/callback?reference=PAY_MISSING123", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
