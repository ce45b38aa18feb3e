package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"product-transactions/internal/logger"
	"product-transactions/internal/service"
)

const MsgInternalError = "Internal server error"

// envelope is the {success, ...} wrapper used by every endpoint.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, key string, value any) {
	writeJSON(w, http.StatusOK, envelope{"success": true, key: value})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{"success": false, "message": message})
}

// fail maps err to a 400 for rejected input and to the generic 500 for everything else.
func fail(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var badReq *badRequestError
	if errors.As(err, &badReq) || errors.Is(err, service.ErrInvalidQuery) {
		logger.Warn(ctx, "Rejected request", slog.String("op", op), slog.String("error", err.Error()))
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Error(ctx, "Request failed", slog.String("op", op), slog.String("error", err.Error()))
	WriteError(w, http.StatusInternalServerError, MsgInternalError)
}
