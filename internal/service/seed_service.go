package service

import (
	"context"
	"fmt"
	"log/slog"

	"product-transactions/internal/logger"
	"product-transactions/internal/model"

	"go.opentelemetry.io/otel"
)

// FeedSource yields the products to seed the store with.
type FeedSource interface {
	Fetch(ctx context.Context) ([]model.Product, error)
}

// SeedService loads the feed into the store. Every call inserts the whole feed again.
type SeedService struct {
	feed  FeedSource
	store TransactionStore
}

var SeedServiceTracer = otel.Tracer("SeedService")

func NewSeedService(feed FeedSource, store TransactionStore) *SeedService {
	return &SeedService{feed: feed, store: store}
}

// Initialize returns the number of records inserted.
func (s *SeedService) Initialize(ctx context.Context) (int, error) {
	ctx, span := SeedServiceTracer.Start(ctx, "SeedService.Initialize")
	defer span.End()
	logger.Info(ctx, "Service")

	products, err := s.feed.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	n, err := s.store.InsertMany(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	logger.Info(ctx, "Database initialized", slog.Int("inserted", n))
	return n, nil
}
