package server

import (
	"errors"
	"net/http"

	"bookstore-api/internal/database"
	"bookstore-api/internal/domain"
	"bookstore-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler adapts the services to HTTP. Authentication happens upstream;
// the authenticated user id arrives in the X-User-ID header.
type Handler struct {
	catalog  service.CatalogService
	orders   service.OrderService
	payments service.PaymentService
	health   database.Service
}

func NewHandler(
	catalog service.CatalogService,
	orders service.OrderService,
	payments service.PaymentService,
	health database.Service,
) *Handler {
	return &Handler{
		catalog:  catalog,
		orders:   orders,
		payments: payments,
		health:   health,
	}
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid X-User-ID header"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps the service error taxonomy onto status codes. Provider
// messages pass through verbatim; nothing internal leaks.
func respondError(c *gin.Context, err error) {
	var (
		notFound   *domain.NotFoundError
		validation *domain.ValidationError
		noStock    *domain.InsufficientStockError
		amountErr  *domain.AmountMismatchError
		gatewayErr *domain.GatewayError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation), errors.As(err, &noStock), errors.As(err, &amountErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateReference):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.health.Health())
}

func (h *Handler) ListBooks(c *gin.Context) {
	books, err := h.catalog.ListBooks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book id"})
		return
	}
	book, err := h.catalog.GetBook(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

type createOrderRequest struct {
	Items []domain.LineItem `json:"items"`
}

func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), userID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Amount is a pointer so a literal 0 still binds; a zero-total order
// pays with amount 0 and the exact-match check does the validating.
type initiatePaymentRequest struct {
	OrderID     uuid.UUID `json:"order_id" binding:"required"`
	Amount      *float64  `json:"amount" binding:"required"`
	Email       string    `json:"email" binding:"required,email"`
	CallbackURL string    `json:"callback_url"`
}

func (h *Handler) InitiatePayment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req initiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.payments.Initiate(c.Request.Context(), userID, service.InitiateRequest{
		OrderID:     req.OrderID,
		Amount:      *req.Amount,
		Email:       req.Email,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required"})
		return
	}

	result, err := h.payments.Verify(c.Request.Context(), reference)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PaymentCallback handles the gateway's browser redirect, which carries
// the local reference as a query parameter.
func (h *Handler) PaymentCallback(c *gin.Context) {
	h.VerifyPayment(c)
}
