package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/focalhq/focal/internal/analytics"
	"github.com/focalhq/focal/internal/insights"
	"github.com/focalhq/focal/internal/types"
	"github.com/focalhq/focal/internal/validation"
)

type dashboardResponse struct {
	Success   bool            `json:"success"`
	Dashboard types.Dashboard `json:"dashboard"`
}

type insightsResponse struct {
	Success  bool   `json:"success"`
	Insights string `json:"insights"`
	Model    string `json:"model"`
}

// Dashboard handles GET /api/v1/personal-analysis/dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := h.buildDashboard(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, dashboardResponse{Success: true, Dashboard: d})
}

// Insights handles GET /api/v1/personal-analysis/insights. Returns 503 when
// no insight generator is configured.
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	if h.insights == nil {
		WriteError(w, http.StatusServiceUnavailable, KindUnavailable,
			"Insight generation is not configured")
		return
	}

	d, ok := h.buildDashboard(w, r)
	if !ok {
		return
	}

	text, err := h.insights.Generate(r.Context(), d)
	if err != nil {
		if errors.Is(err, insights.ErrUnavailable) {
			WriteError(w, http.StatusServiceUnavailable, KindUnavailable,
				"Insight generation is temporarily unavailable")
			return
		}
		slog.Error("insight generation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, KindServerError, "Failed to generate insights")
		return
	}

	WriteJSON(w, http.StatusOK, insightsResponse{
		Success:  true,
		Insights: text,
		Model:    h.insights.ModelName(),
	})
}

// buildDashboard resolves the requested window and assembles the dashboard
// projection. On failure it writes the error response and returns ok=false.
func (h *Handler) buildDashboard(w http.ResponseWriter, r *http.Request) (types.Dashboard, bool) {
	ownerID := MustOwnerFromContext(r.Context())

	timeRange := r.URL.Query().Get("timeRange")
	if timeRange == "" {
		timeRange = string(types.RangeWeek)
	}
	if err := validation.ValidateEnum("timeRange", timeRange, types.TimeRanges); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, err.Error())
		return types.Dashboard{}, false
	}

	now := time.Now().UTC()
	win := analytics.ComputeWindow(types.TimeRange(timeRange), now)

	entries, err := h.store.ListEntriesBetween(r.Context(), ownerID, win.Start, win.End)
	if err != nil {
		slog.Error("dashboard entry load failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return types.Dashboard{}, false
	}
	prevEntries, err := h.store.ListEntriesBetween(r.Context(), ownerID, win.PrevStart, win.PrevEnd)
	if err != nil {
		slog.Error("dashboard previous-window load failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return types.Dashboard{}, false
	}
	tasks, err := h.store.ListTasks(r.Context(), ownerID, types.TaskQuery{})
	if err != nil {
		slog.Error("dashboard task load failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return types.Dashboard{}, false
	}
	goals, err := h.store.ListGoals(r.Context(), ownerID)
	if err != nil {
		slog.Error("dashboard goal load failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return types.Dashboard{}, false
	}

	d := analytics.BuildDashboard(types.TimeRange(timeRange), win, analytics.Input{
		Entries:     entries,
		PrevEntries: prevEntries,
		Tasks:       tasks,
		Goals:       goals,
	})
	return d, true
}
