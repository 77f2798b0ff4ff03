package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"granite-console/internal/core"
	"granite-console/internal/logger"
)

// errorResponse is the JSON error body. Clients show msg to the user as-is.
type errorResponse struct {
	Msg       string `json:"msg"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Msg:       message,
		Code:      code,
		RequestID: logger.RequestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// serviceError maps a service error to an HTTP response. notFound is the
// message used for ErrNotFound.
func serviceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, r, ve.Message, "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrInsufficientStock):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, notFound, "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrUnauthenticated):
		writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, r, "Server Error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
