package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore-api/internal/config"
	"bookstore-api/internal/database"
	"bookstore-api/internal/infrastructure/payment"
	"bookstore-api/internal/repo"
	"bookstore-api/internal/server"
	"bookstore-api/internal/service"
	"bookstore-api/internal/worker"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	bookRepo := repo.NewBookRepo(db.DB())
	orderRepo := repo.NewOrderRepo(db.DB())
	paymentRepo := repo.NewPaymentRepo(db.DB())
	txRunner := repo.NewTxRunner(db.DB())

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	}

	gateway := payment.NewPaystackClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey, cfg.Paystack.Timeout)

	catalogService := service.NewCatalogService(bookRepo, rdb, cfg.Redis.TTL)
	orderService := service.NewOrderService(txRunner, orderRepo, bookRepo, rdb)
	paymentService := service.NewPaymentService(txRunner, orderRepo, paymentRepo, gateway, cfg.Paystack.CallbackURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper := worker.NewReconciliationWorker(
		paymentRepo, paymentService,
		cfg.Sweeper.Interval, cfg.Sweeper.StaleAge, cfg.Sweeper.Batch,
	)
	go sweeper.Run(ctx)

	handler := server.NewHandler(catalogService, orderService, paymentService, db)
	srv := server.New(cfg.HTTP, handler)

	log.Printf("Starting HTTP server on %s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("HTTP server shutdown error: %v", err)
	}
}
