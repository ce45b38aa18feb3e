package service

import (
	"context"
	"errors"
	"fmt"

	"product-transactions/internal/logger"
	"product-transactions/internal/model"
	"product-transactions/internal/repository"

	"go.opentelemetry.io/otel"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
)

var ErrInvalidQuery = errors.New("invalid query")

// TransactionStore is the subset of the repository the services need.
type TransactionStore interface {
	InsertMany(ctx context.Context, products []model.Product) (int, error)
	Find(ctx context.Context, filter repository.TransactionFilter, page *repository.Page) ([]model.Product, error)
}

// SearchQuery is a validated /transactions request. Zero Page and PerPage take the defaults.
type SearchQuery struct {
	Filter  repository.TransactionFilter
	Page    int
	PerPage int
}

type TransactionService struct {
	store TransactionStore
}

var TransactionServiceTracer = otel.Tracer("TransactionService")

func NewTransactionService(store TransactionStore) *TransactionService {
	return &TransactionService{store: store}
}

func (s *TransactionService) ListAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := TransactionServiceTracer.Start(ctx, "TransactionService.ListAll")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.store.Find(ctx, repository.TransactionFilter{}, nil)
}

func (s *TransactionService) Search(ctx context.Context, q SearchQuery) ([]model.Product, error) {
	ctx, span := TransactionServiceTracer.Start(ctx, "TransactionService.Search")
	defer span.End()
	logger.Info(ctx, "Service")

	page := repository.Page{Number: q.Page, Size: q.PerPage}
	if page.Number == 0 {
		page.Number = DefaultPage
	}
	if page.Size == 0 {
		page.Size = DefaultPerPage
	}
	if page.Number < 1 || page.Size < 1 {
		return nil, fmt.Errorf("%w: page and perPage must be positive", ErrInvalidQuery)
	}

	return s.store.Find(ctx, q.Filter, &page)
}

// Statistics returns the sold/unsold partition and sale total for the month (all records when nil).
func (s *TransactionService) Statistics(ctx context.Context, month *model.SaleMonth) (Statistics, error) {
	ctx, span := TransactionServiceTracer.Start(ctx, "TransactionService.Statistics")
	defer span.End()
	logger.Info(ctx, "Service")

	records, err := s.inMonth(ctx, month)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(records), nil
}

func (s *TransactionService) PriceRanges(ctx context.Context, month *model.SaleMonth) (PriceRangeCounts, error) {
	ctx, span := TransactionServiceTracer.Start(ctx, "TransactionService.PriceRanges")
	defer span.End()
	logger.Info(ctx, "Service")

	records, err := s.inMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return PriceHistogram(records), nil
}

func (s *TransactionService) Categories(ctx context.Context, month *model.SaleMonth) (map[string]int, error) {
	ctx, span := TransactionServiceTracer.Start(ctx, "TransactionService.Categories")
	defer span.End()
	logger.Info(ctx, "Service")

	records, err := s.inMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	return CategoryHistogram(records), nil
}

func (s *TransactionService) inMonth(ctx context.Context, month *model.SaleMonth) ([]model.Product, error) {
	return s.store.Find(ctx, repository.TransactionFilter{SaleMonth: month}, nil)
}
