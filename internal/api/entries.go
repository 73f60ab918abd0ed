package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/focalhq/focal/internal/store"
	"github.com/focalhq/focal/internal/types"
	"github.com/focalhq/focal/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
)

const (
	maxNotesLength  = 500
	maxTags         = 10
	maxReasonLength = 200
	defaultPageSize = 20
	maxPageSize     = 100
)

type entryResponse struct {
	Success   bool             `json:"success"`
	TimeEntry *types.TimeEntry `json:"timeEntry"`
}

type stopEntryResponse struct {
	Success   bool              `json:"success"`
	TimeEntry *types.TimeEntry  `json:"timeEntry"`
	Summary   types.StopSummary `json:"summary"`
}

type entriesResponse struct {
	Success bool           `json:"success"`
	Entries any            `json:"entries"`
	Meta    types.ListMeta `json:"meta"`
}

type interruptionResponse struct {
	Success      bool                `json:"success"`
	Interruption *types.Interruption `json:"interruption"`
}

type deletedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StartEntry handles POST /api/v1/time-entries.
// Supplying an end timestamp creates a back-dated, already-completed entry.
func (h *Handler) StartEntry(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.StartEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("taskId", req.TaskID))
	c.Add(validation.ValidateFocusScore("focusScore", req.FocusScore))
	c.Add(validation.ValidateMaxLength("additionalNotes", req.Notes, maxNotesLength))
	c.Add(validation.ValidateMaxItems("productivityTags", len(req.Tags), maxTags))
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	if _, err := h.store.GetTask(r.Context(), ownerID, req.TaskID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, http.StatusNotFound, KindNotFound, "Task not found")
			return
		}
		slog.Error("task lookup failed", "error", err, "task_id", req.TaskID)
		MapStoreError(w, err)
		return
	}

	startedAt := time.Now().UTC()
	if req.StartedAt != nil {
		startedAt = req.StartedAt.UTC()
	}
	if err := validation.ValidateTimeOrder("endTimestamp", startedAt, req.EndedAt); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	entry := &types.TimeEntry{
		OwnerID:    ownerID,
		TaskID:     req.TaskID,
		Title:      req.Title,
		StartedAt:  startedAt,
		Status:     types.EntryActive,
		FocusScore: req.FocusScore,
		Notes:      req.Notes,
		Tags:       req.Tags,
	}

	if req.EndedAt != nil {
		ended := req.EndedAt.UTC()
		entry.EndedAt = &ended
		entry.DurationMin = types.DurationMinutes(startedAt, ended)
		entry.Status = types.EntryCompleted
	}

	if err := h.store.CreateEntry(r.Context(), entry); err != nil {
		slog.Error("entry create failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, entryResponse{Success: true, TimeEntry: entry})
}

// GetEntry handles GET /api/v1/time-entries/{id}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	entry, err := h.store.GetEntry(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entryResponse{Success: true, TimeEntry: entry})
}

// StopEntry handles PUT /api/v1/time-entries/{id}/stop. Stopping an already
// completed entry is an invalid operation; stopping a paused entry gets the
// distinct paused error so the caller knows to resume first.
func (h *Handler) StopEntry(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.StopEntryRequest
	if err := decodeOptionalBody(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	if err := validation.ValidateFocusScore("focusScore", req.FocusScore); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	entry, err := h.store.GetEntry(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	switch entry.Status {
	case types.EntryCompleted:
		WriteError(w, http.StatusBadRequest, KindInvalidOperation, "Entry is already completed")
		return
	case types.EntryPaused:
		MapStoreError(w, store.ErrEntryPaused)
		return
	case types.EntryAbandoned:
		WriteError(w, http.StatusBadRequest, KindInvalidOperation, "Entry was abandoned")
		return
	}

	endedAt := time.Now().UTC()
	if req.EndedAt != nil {
		endedAt = req.EndedAt.UTC()
	}

	entry.EndedAt = &endedAt
	entry.DurationMin = types.DurationMinutes(entry.StartedAt, endedAt)
	entry.Status = types.EntryCompleted
	if req.FocusScore != nil {
		entry.FocusScore = req.FocusScore
	}
	if req.Notes != "" {
		entry.Notes = req.Notes
	}

	if err := h.store.UpdateEntry(r.Context(), entry); err != nil {
		slog.Error("entry stop failed", "error", err, "entry_id", entry.ID)
		MapStoreError(w, err)
		return
	}

	// Second phase: fold the session's contribution into the task's rolled-up
	// metrics. The entry write above is already committed; a failure here is
	// surfaced as a reconciliation error, never retried.
	if err := h.applyEntryToTask(r, ownerID, entry); err != nil {
		slog.Error("task metrics update failed after stop",
			"error", err, "entry_id", entry.ID, "task_id", entry.TaskID)
		WriteError(w, http.StatusInternalServerError, KindServerError,
			"Entry stopped but task metrics update failed")
		return
	}

	WriteJSON(w, http.StatusOK, stopEntryResponse{
		Success:   true,
		TimeEntry: entry,
		Summary:   entry.Summarize(),
	})
}

// applyEntryToTask folds a completed entry into its task's metrics.
// A task deleted since the entry started is not an error.
func (h *Handler) applyEntryToTask(r *http.Request, ownerID string, entry *types.TimeEntry) error {
	task, err := h.store.GetTask(r.Context(), ownerID, entry.TaskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("task missing for stopped entry", "entry_id", entry.ID, "task_id", entry.TaskID)
			return nil
		}
		return err
	}

	net := entry.NetProductiveTime()
	task.ApplyProgress(types.ProgressUpdate{
		TimeSpentMin:  entry.DurationMin,
		ProductiveMin: &net,
		FocusScore:    entry.FocusScore,
		Interruptions: len(entry.Interruptions),
	}, time.Now().UTC())

	return h.store.UpdateTask(r.Context(), task)
}

// PauseEntry handles PUT /api/v1/time-entries/{id}/pause
func (h *Handler) PauseEntry(w http.ResponseWriter, r *http.Request) {
	h.transitionEntry(w, r, types.EntryActive, types.EntryPaused, "Only an active entry can be paused")
}

// ResumeEntry handles PUT /api/v1/time-entries/{id}/resume
func (h *Handler) ResumeEntry(w http.ResponseWriter, r *http.Request) {
	h.transitionEntry(w, r, types.EntryPaused, types.EntryActive, "Only a paused entry can be resumed")
}

// AbandonEntry handles PUT /api/v1/time-entries/{id}/abandon
func (h *Handler) AbandonEntry(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	entry, err := h.store.GetEntry(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	if entry.Status.Terminal() {
		WriteError(w, http.StatusBadRequest, KindInvalidOperation, "Entry is already finished")
		return
	}

	entry.Status = types.EntryAbandoned
	if err := h.store.UpdateEntry(r.Context(), entry); err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entryResponse{Success: true, TimeEntry: entry})
}

// transitionEntry performs a guarded single-step status transition.
func (h *Handler) transitionEntry(w http.ResponseWriter, r *http.Request, from, to types.EntryStatus, guardMsg string) {
	ownerID := MustOwnerFromContext(r.Context())

	entry, err := h.store.GetEntry(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	if entry.Status != from {
		WriteError(w, http.StatusBadRequest, KindInvalidOperation, guardMsg)
		return
	}

	entry.Status = to
	if err := h.store.UpdateEntry(r.Context(), entry); err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entryResponse{Success: true, TimeEntry: entry})
}

// LogInterruption handles POST /api/v1/time-entries/{id}/interruptions.
// Interruptions can only be appended to an active entry; an interruption with
// a start but no end stays at duration 0 until closed.
func (h *Handler) LogInterruption(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.LogInterruptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("reason", req.Reason))
	c.Add(validation.ValidateMaxLength("reason", req.Reason, maxReasonLength))
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	entry, err := h.store.GetEntry(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	if entry.Status != types.EntryActive {
		WriteError(w, http.StatusBadRequest, KindInvalidOperation, "Interruptions can only be logged on an active entry")
		return
	}

	startedAt := time.Now().UTC()
	if req.StartedAt != nil {
		startedAt = req.StartedAt.UTC()
	}

	interruption := types.Interruption{
		ID:           ulid.Make().String(),
		Reason:       req.Reason,
		StartedAt:    startedAt,
		WasNecessary: req.WasNecessary,
	}

	switch {
	case req.EndedAt != nil:
		ended := req.EndedAt.UTC()
		interruption.EndedAt = &ended
		interruption.DurationMin = types.DurationMinutes(startedAt, ended)
	case req.DurationMin != nil && *req.DurationMin > 0:
		interruption.DurationMin = *req.DurationMin
	}

	entry.Interruptions = append(entry.Interruptions, interruption)

	if err := h.store.UpdateEntry(r.Context(), entry); err != nil {
		slog.Error("interruption append failed", "error", err, "entry_id", entry.ID)
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, interruptionResponse{Success: true, Interruption: &interruption})
}

// ListEntries handles GET /api/v1/time-entries
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	q, err := parseEntryQuery(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, err.Error())
		return
	}

	entries, total, err := h.store.ListEntries(r.Context(), ownerID, q)
	if err != nil {
		slog.Error("entry list failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return
	}

	meta := types.ListMeta{
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
		HasMore: q.Page*q.Limit < total,
	}

	if q.IncludeInterruptions {
		withNet := make([]types.EntryWithNet, len(entries))
		for i := range entries {
			withNet[i] = types.EntryWithNet{
				TimeEntry:         entries[i],
				NetProductiveTime: entries[i].NetProductiveTime(),
			}
		}
		WriteJSON(w, http.StatusOK, entriesResponse{Success: true, Entries: withNet, Meta: meta})
		return
	}

	if entries == nil {
		entries = []types.TimeEntry{}
	}
	WriteJSON(w, http.StatusOK, entriesResponse{Success: true, Entries: entries, Meta: meta})
}

// UpdateEntry handles PUT /api/v1/time-entries/{id}. Identity, audit and
// lifecycle fields are excluded; status moves only through the dedicated
// transition operations.
func (h *Handler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateFocusScore("focusScore", req.FocusScore))
	if req.Notes != nil {
		c.Add(validation.ValidateMaxLength("additionalNotes", *req.Notes, maxNotesLength))
	}
	c.Add(validation.ValidateMaxItems("productivityTags", len(req.Tags), maxTags))
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	entry, err := h.store.GetEntry(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.StartedAt != nil {
		entry.StartedAt = req.StartedAt.UTC()
	}
	if req.EndedAt != nil {
		ended := req.EndedAt.UTC()
		entry.EndedAt = &ended
	}
	if req.FocusScore != nil {
		entry.FocusScore = req.FocusScore
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}
	if req.Tags != nil {
		entry.Tags = req.Tags
	}

	// Duration always tracks the persisted timestamps.
	if entry.EndedAt != nil {
		entry.DurationMin = types.DurationMinutes(entry.StartedAt, *entry.EndedAt)
	}

	if err := h.store.UpdateEntry(r.Context(), entry); err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entryResponse{Success: true, TimeEntry: entry})
}

// DeleteEntry handles DELETE /api/v1/time-entries/{id}. Hard delete; task
// aggregates are not retroactively recomputed.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	if err := h.store.DeleteEntry(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, deletedResponse{Success: true, Message: "Entry deleted"})
}

// parseEntryQuery extracts filters, pagination and sorting from the URL.
func parseEntryQuery(r *http.Request) (types.EntryQuery, error) {
	q := types.EntryQuery{
		Page:                 1,
		Limit:                defaultPageSize,
		SortBy:               r.URL.Query().Get("sortBy"),
		SortOrder:            r.URL.Query().Get("sortOrder"),
		TaskID:               r.URL.Query().Get("taskId"),
		IncludeInterruptions: r.URL.Query().Get("includeInterruptions") == "true",
	}

	if v := r.URL.Query().Get("startDate"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return q, fmt.Errorf("startDate: %w", err)
		}
		q.StartDate = &t
	}
	if v := r.URL.Query().Get("endDate"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			return q, fmt.Errorf("endDate: %w", err)
		}
		q.EndDate = &t
	}
	if v := r.URL.Query().Get("minFocusScore"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 5 {
			return q, fmt.Errorf("minFocusScore: must be an integer between 1 and 5")
		}
		q.MinFocusScore = &n
	}
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, fmt.Errorf("page: must be a positive integer")
		}
		q.Page = n
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return q, fmt.Errorf("limit: must be a positive integer")
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		q.Limit = n
	}

	return q, nil
}

// parseDateParam accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseDateParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("must be RFC 3339 or YYYY-MM-DD")
}

// decodeOptionalBody decodes JSON into v, tolerating an empty request body.
func decodeOptionalBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == io.EOF {
		return nil
	}
	return err
}
