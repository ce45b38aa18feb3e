package http

import (
	"context"
	"log/slog"
	"net/http"

	"product-transactions/internal/logger"

	"go.opentelemetry.io/otel"
)

type Seeder interface {
	Initialize(ctx context.Context) (int, error)
}

type SeedHandler struct {
	seeder Seeder
}

var HttpSeedHandlerTracer = otel.Tracer("HttpSeedHandler")

func NewSeedHandler(seeder Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// Initialize handles GET /api/initialize-database.
func (h *SeedHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpSeedHandlerTracer.Start(r.Context(), "HttpSeedHandler.Initialize")
	defer span.End()

	n, err := h.seeder.Initialize(ctx)
	if err != nil {
		fail(ctx, w, "initialize database", err)
		return
	}

	logger.Info(ctx, "HttpSeedHandler.Initialize", slog.Int("inserted", n))
	writeJSON(w, http.StatusOK, envelope{
		"success": true,
		"message": "Database initialized successfully",
	})
}
