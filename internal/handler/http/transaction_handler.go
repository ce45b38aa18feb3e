package http

import (
	"context"
	"log/slog"
	"net/http"

	"product-transactions/internal/logger"
	"product-transactions/internal/model"
	"product-transactions/internal/service"

	"go.opentelemetry.io/otel"
)

type TransactionService interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	Search(ctx context.Context, q service.SearchQuery) ([]model.Product, error)
	Statistics(ctx context.Context, month *model.SaleMonth) (service.Statistics, error)
	PriceRanges(ctx context.Context, month *model.SaleMonth) (service.PriceRangeCounts, error)
	Categories(ctx context.Context, month *model.SaleMonth) (map[string]int, error)
}

type TransactionHandler struct {
	service TransactionService
}

var HttpTransactionHandlerTracer = otel.Tracer("HttpTransactionHandler")

func NewTransactionHandler(service TransactionService) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// All handles GET /transactions/all.
func (h *TransactionHandler) All(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpTransactionHandlerTracer.Start(r.Context(), "HttpTransactionHandler.All")
	defer span.End()

	transactions, err := h.service.ListAll(ctx)
	if err != nil {
		fail(ctx, w, "list transactions", err)
		return
	}
	writeSuccess(w, "transactions", transactions)
}

// Search handles GET /transactions.
func (h *TransactionHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpTransactionHandlerTracer.Start(r.Context(), "HttpTransactionHandler.Search")
	defer span.End()

	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		fail(ctx, w, "search transactions", err)
		return
	}

	transactions, err := h.service.Search(ctx, q)
	if err != nil {
		fail(ctx, w, "search transactions", err)
		return
	}
	logger.Info(ctx, "HttpTransactionHandler.Search", slog.Int("results", len(transactions)))
	writeSuccess(w, "transactions", transactions)
}

// Statistics handles GET /statistics.
func (h *TransactionHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpTransactionHandlerTracer.Start(r.Context(), "HttpTransactionHandler.Statistics")
	defer span.End()

	month, err := parseSaleMonth(r.URL.Query())
	if err != nil {
		fail(ctx, w, "statistics", err)
		return
	}

	stats, err := h.service.Statistics(ctx, month)
	if err != nil {
		fail(ctx, w, "statistics", err)
		return
	}
	writeSuccess(w, "statistics", stats)
}

// BarChart handles GET /bar-chart.
func (h *TransactionHandler) BarChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpTransactionHandlerTracer.Start(r.Context(), "HttpTransactionHandler.BarChart")
	defer span.End()

	month, err := parseSaleMonth(r.URL.Query())
	if err != nil {
		fail(ctx, w, "bar chart", err)
		return
	}

	counts, err := h.service.PriceRanges(ctx, month)
	if err != nil {
		fail(ctx, w, "bar chart", err)
		return
	}
	writeSuccess(w, "priceRangesCount", counts)
}

// PieChart handles GET /pie-chart.
func (h *TransactionHandler) PieChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpTransactionHandlerTracer.Start(r.Context(), "HttpTransactionHandler.PieChart")
	defer span.End()

	month, err := parseSaleMonth(r.URL.Query())
	if err != nil {
		fail(ctx, w, "pie chart", err)
		return
	}

	counts, err := h.service.Categories(ctx, month)
	if err != nil {
		fail(ctx, w, "pie chart", err)
		return
	}
	writeSuccess(w, "categoryCounts", counts)
}
