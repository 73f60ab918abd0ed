package api

import (
	"net/http"

	"github.com/focalhq/focal/internal/insights"
	"github.com/focalhq/focal/internal/store"
	"github.com/focalhq/focal/internal/types"
)

// Handler implements the API handlers
type Handler struct {
	store    store.Store
	insights insights.Generator // nil when no generator is configured
	version  string
}

// NewHandler creates a new Handler with store.Store interface
func NewHandler(s store.Store, gen insights.Generator, version string) *Handler {
	return &Handler{
		store:    s,
		insights: gen,
		version:  version,
	}
}

// Health returns the health status
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, KindServerError, "Internal Server Error")
		return
	}

	WriteJSON(w, http.StatusOK, types.HealthResponse{
		Status:     "healthy",
		Version:    h.version,
		EntryCount: stats.EntryCount,
		TaskCount:  stats.TaskCount,
		GoalCount:  stats.GoalCount,
	})
}
