package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"refillpos/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps the core's typed failure kinds to HTTP statuses.
// Anything unrecognized is an infrastructure failure and surfaces as 500
// without leaking internals to the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrProductNotFound):
		writeError(w, r, core.ErrProductNotFound.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrInvalidQuantity):
		writeError(w, r, core.ErrInvalidQuantity.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrInvalidOrderDate):
		writeError(w, r, core.ErrInvalidOrderDate.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrFutureOrderDate):
		writeError(w, r, core.ErrFutureOrderDate.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrInsufficientStock):
		writeError(w, r, core.ErrInsufficientStock.Error(), "INSUFFICIENT_STOCK", http.StatusConflict)
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, r, "invalid username or password", "UNAUTHORIZED", http.StatusUnauthorized)
	default:
		writeError(w, r, "store unavailable", "STORE_UNAVAILABLE", http.StatusInternalServerError)
	}
}
