package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/focalhq/focal/internal/store"
)

// Error kinds carried in the error envelope.
const (
	KindValidation        = "VALIDATION_ERROR"
	KindNotFound          = "NOT_FOUND"
	KindInvalidOperation  = "INVALID_OPERATION"
	KindEntryPaused       = "ENTRY_PAUSED"
	KindActiveEntryExists = "ACTIVE_ENTRY_EXISTS"
	KindUnauthorized      = "UNAUTHORIZED"
	KindServerError       = "SERVER_ERROR"
	KindUnavailable       = "SERVICE_UNAVAILABLE"
)

// ErrorEnvelope is the uniform error response body.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes the error envelope with the given status and kind.
func WriteError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorEnvelope{
		Success: false,
		Error:   kind,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// WriteJSON writes a success payload. The payload carries its own
// success:true field; see the response types in internal/types.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// MapStoreError converts store errors to envelope responses.
// Unexpected errors are never exposed to the client.
func MapStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, KindNotFound, "Resource not found")
	case errors.Is(err, store.ErrEntryPaused):
		WriteError(w, http.StatusBadRequest, KindEntryPaused, "Entry is paused; resume it before stopping")
	case errors.Is(err, store.ErrInvalidState):
		WriteError(w, http.StatusBadRequest, KindInvalidOperation, "Operation not allowed in the entry's current state")
	case errors.Is(err, store.ErrActiveEntryExists):
		WriteError(w, http.StatusConflict, KindActiveEntryExists, "An active entry already exists; stop it first")
	default:
		WriteError(w, http.StatusInternalServerError, KindServerError, "Internal Server Error")
	}
}
