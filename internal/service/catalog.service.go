package service

import (
	"context"
	"encoding/json"
	"time"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/repo"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CatalogService interface {
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

type catalogService struct {
	bookRepo repo.BookRepo
	rdb      *redis.Client
	ttl      time.Duration
}

// NewCatalogService wires catalog reads. rdb may be nil, which disables
// the read cache entirely. Order assembly never reads the cache; stock
// checks always go to the store.
func NewCatalogService(bookRepo repo.BookRepo, rdb *redis.Client, ttl time.Duration) CatalogService {
	return &catalogService{bookRepo: bookRepo, rdb: rdb, ttl: ttl}
}

func bookCacheKey(id uuid.UUID) string {
	return "book:" + id.String()
}

func (s *catalogService) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	key := bookCacheKey(id)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var b domain.Book
			if err := json.Unmarshal([]byte(cached), &b); err == nil {
				return &b, nil
			}
		}
	}

	book, err := s.bookRepo.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil || !book.IsActive {
		return nil, &domain.NotFoundError{Entity: "book", Ref: id.String()}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(book); err == nil {
			s.rdb.Set(ctx, key, data, s.ttl)
		}
	}
	return book, nil
}

func (s *catalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.bookRepo.ListActive(ctx)
}
