package server

import (
	"context"
	"net/http"
	"time"

	"bookstore-api/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
}

func New(cfg config.HTTPServer, h *Handler) *Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type", "X-User-ID"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	registerRoutes(r, h)

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Host + ":" + cfg.Port,
			Handler: r,
		},
	}
}

func registerRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Health)

	r.GET("/books", h.ListBooks)
	r.GET("/books/:id", h.GetBook)

	orders := r.Group("/orders")
	orders.POST("", h.CreateOrder)
	orders.GET("", h.ListOrders)
	orders.GET("/:id", h.GetOrder)

	payments := r.Group("/payments")
	payments.POST("/initiate", h.InitiatePayment)
	payments.POST("/verify", h.VerifyPayment)
	payments.GET("/callback", h.PaymentCallback)
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
