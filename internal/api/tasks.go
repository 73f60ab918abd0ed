package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/focalhq/focal/internal/types"
	"github.com/focalhq/focal/internal/validation"
	"github.com/go-chi/chi/v5"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 1000
	maxEstimatedMin      = 24 * 60
)

type taskResponse struct {
	Success bool            `json:"success"`
	Task    *types.UserTask `json:"task"`
}

type tasksResponse struct {
	Success bool             `json:"success"`
	Tasks   []types.UserTask `json:"tasks"`
}

type taskSummaryResponse struct {
	Success bool              `json:"success"`
	Summary types.TaskSummary `json:"summary"`
}

// CreateTask handles POST /api/v1/user-tasks
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	if req.Priority == "" {
		req.Priority = string(types.PriorityMedium)
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("title", req.Title))
	c.Add(validation.ValidateMaxLength("title", req.Title, maxTitleLength))
	c.Add(validation.ValidateMaxLength("description", req.Description, maxDescriptionLength))
	c.Add(validation.ValidateEnum("category", req.Category, types.Categories))
	c.Add(validation.ValidateEnum("priority", req.Priority, types.Priorities))
	if req.EstimatedDurationMin != 0 {
		c.Add(validation.ValidateIntRange("estimatedDurationInMinutes", req.EstimatedDurationMin, 1, maxEstimatedMin))
	}
	if req.Difficulty != nil {
		c.Add(validation.ValidateIntRange("difficulty", *req.Difficulty, 1, 5))
	}
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	task := &types.UserTask{
		OwnerID:               ownerID,
		Title:                 req.Title,
		Description:           req.Description,
		Category:              types.Category(req.Category),
		Priority:              types.Priority(req.Priority),
		EstimatedDurationMin:  req.EstimatedDurationMin,
		PlannedStartDate:      req.PlannedStartDate,
		PlannedCompletionDate: req.PlannedCompletionDate,
		Deadline:              req.Deadline,
		Status:                types.TaskNotStarted,
		Tags:                  req.Tags,
		Recurrence:            req.Recurrence,
		ParentTaskID:          req.ParentTaskID,
	}
	if req.Difficulty != nil {
		task.Difficulty = *req.Difficulty
	}

	if err := h.store.CreateTask(r.Context(), task); err != nil {
		slog.Error("task create failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, taskResponse{Success: true, Task: task})
}

// GetTask handles GET /api/v1/user-tasks/{id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	task, err := h.store.GetTask(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, taskResponse{Success: true, Task: task})
}

// ListTasks handles GET /api/v1/user-tasks
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	q := types.TaskQuery{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("category"),
		Priority: r.URL.Query().Get("priority"),
	}

	var c validation.Collector
	if q.Status != "" {
		c.Add(validation.ValidateEnum("status", q.Status, types.TaskStatuses))
	}
	if q.Category != "" {
		c.Add(validation.ValidateEnum("category", q.Category, types.Categories))
	}
	if q.Priority != "" {
		c.Add(validation.ValidateEnum("priority", q.Priority, types.Priorities))
	}
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	tasks, err := h.store.ListTasks(r.Context(), ownerID, q)
	if err != nil {
		slog.Error("task list failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return
	}

	if tasks == nil {
		tasks = []types.UserTask{}
	}
	WriteJSON(w, http.StatusOK, tasksResponse{Success: true, Tasks: tasks})
}

// TaskSummary handles GET /api/v1/user-tasks/summary
func (h *Handler) TaskSummary(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	tasks, err := h.store.ListTasks(r.Context(), ownerID, types.TaskQuery{})
	if err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, taskSummaryResponse{
		Success: true,
		Summary: types.BuildTaskSummary(tasks, time.Now().UTC()),
	})
}

// UpdateTask handles PUT /api/v1/user-tasks/{id}. The rolled-up metrics block
// is not editable here; it only moves through the progress operation.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	var c validation.Collector
	if req.Title != nil {
		c.Add(validation.ValidateRequired("title", *req.Title))
		c.Add(validation.ValidateMaxLength("title", *req.Title, maxTitleLength))
	}
	if req.Description != nil {
		c.Add(validation.ValidateMaxLength("description", *req.Description, maxDescriptionLength))
	}
	if req.Category != nil {
		c.Add(validation.ValidateEnum("category", *req.Category, types.Categories))
	}
	if req.Priority != nil {
		c.Add(validation.ValidateEnum("priority", *req.Priority, types.Priorities))
	}
	if req.Status != nil {
		c.Add(validation.ValidateEnum("status", *req.Status, types.TaskStatuses))
	}
	if req.Difficulty != nil {
		c.Add(validation.ValidateIntRange("difficulty", *req.Difficulty, 1, 5))
	}
	if req.EstimatedDurationMin != nil {
		c.Add(validation.ValidateIntRange("estimatedDurationInMinutes", *req.EstimatedDurationMin, 1, maxEstimatedMin))
	}
	if req.CompletionPercentage != nil {
		c.Add(validation.ValidateIntRange("completionPercentage", *req.CompletionPercentage, 0, 100))
	}
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	task, err := h.store.GetTask(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Category != nil {
		task.Category = types.Category(*req.Category)
	}
	if req.Priority != nil {
		task.Priority = types.Priority(*req.Priority)
	}
	if req.Difficulty != nil {
		task.Difficulty = *req.Difficulty
	}
	if req.EstimatedDurationMin != nil {
		task.EstimatedDurationMin = *req.EstimatedDurationMin
	}
	if req.PlannedStartDate != nil {
		task.PlannedStartDate = req.PlannedStartDate
	}
	if req.PlannedCompletionDate != nil {
		task.PlannedCompletionDate = req.PlannedCompletionDate
	}
	if req.Deadline != nil {
		task.Deadline = req.Deadline
	}
	if req.Status != nil {
		applyStatusChange(task, types.TaskStatus(*req.Status), time.Now().UTC())
	}
	if req.CompletionPercentage != nil {
		task.CompletionPercentage = *req.CompletionPercentage
	}
	if req.Tags != nil {
		task.Tags = req.Tags
	}
	if req.Recurrence != nil {
		task.Recurrence = req.Recurrence
	}

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, taskResponse{Success: true, Task: task})
}

// applyStatusChange moves a task to a new status, stamping the actual start
// and completion dates the first time the respective state is reached.
func applyStatusChange(task *types.UserTask, status types.TaskStatus, now time.Time) {
	if task.Status == status {
		return
	}
	task.Status = status

	switch status {
	case types.TaskInProgress:
		if task.ActualStartDate == nil {
			started := now
			task.ActualStartDate = &started
		}
	case types.TaskCompleted:
		task.CompletionPercentage = 100
		if task.ActualCompletionDate == nil {
			completed := now
			task.ActualCompletionDate = &completed
		}
	}
}

// TaskProgress handles PUT /api/v1/user-tasks/{id}/progress
func (h *Handler) TaskProgress(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.TaskProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateFocusScore("focusScore", req.FocusScore))
	if req.TimeSpentMin < 0 {
		c.Add(&validation.ValidationError{Field: "timeSpentInMinutes", Message: "must not be negative"})
	}
	if req.UserRating != nil {
		c.Add(validation.ValidateIntRange("userRating", *req.UserRating, 1, 5))
	}
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	task, err := h.store.GetTask(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	task.ApplyProgress(types.ProgressUpdate{
		TimeSpentMin: req.TimeSpentMin,
		FocusScore:   req.FocusScore,
		IsCompleted:  req.IsCompleted,
		UserRating:   req.UserRating,
		Feedback:     req.Feedback,
	}, time.Now().UTC())

	if err := h.store.UpdateTask(r.Context(), task); err != nil {
		slog.Error("task progress update failed", "error", err, "task_id", task.ID)
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, taskResponse{Success: true, Task: task})
}

// DeleteTask handles DELETE /api/v1/user-tasks/{id}. Time entries referencing
// the task are kept; the dashboard buckets them under a fallback category.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	if err := h.store.DeleteTask(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, deletedResponse{Success: true, Message: "Task deleted"})
}
