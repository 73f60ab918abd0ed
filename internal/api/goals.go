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

type goalResponse struct {
	Success bool                    `json:"success"`
	Goal    *types.ProductivityGoal `json:"goal"`
}

type goalsResponse struct {
	Success bool                     `json:"success"`
	Goals   []types.ProductivityGoal `json:"goals"`
}

// CreateGoal handles POST /api/v1/productivity-goals
func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	var c validation.Collector
	c.Add(validation.ValidateRequired("title", req.Title))
	c.Add(validation.ValidateMaxLength("title", req.Title, maxTitleLength))
	c.Add(validation.ValidateMaxLength("description", req.Description, maxDescriptionLength))
	c.Add(validation.ValidateEnum("goalType", req.GoalType, types.GoalTypes))
	c.Add(validation.ValidateEnum("goalPeriod.periodType", req.Period.PeriodType, types.PeriodTypes))
	c.Add(validation.ValidateRequired("targetMetrics.name", req.Target.Name))
	if req.Target.TargetValue <= 0 {
		c.Add(&validation.ValidationError{Field: "targetMetrics.targetValue", Message: "must be greater than zero"})
	}
	if req.Period.StartDate == nil {
		c.Add(&validation.ValidationError{Field: "goalPeriod.startDate", Message: "is required"})
	}
	if req.Period.EndDate == nil {
		c.Add(&validation.ValidationError{Field: "goalPeriod.endDate", Message: "is required"})
	}
	if req.Period.StartDate != nil {
		c.Add(validation.ValidateTimeOrder("goalPeriod.endDate", *req.Period.StartDate, req.Period.EndDate))
	}
	if req.SuccessThreshold != nil && (*req.SuccessThreshold <= 0 || *req.SuccessThreshold > 100) {
		c.Add(&validation.ValidationError{Field: "successThreshold", Message: "must be between 0 and 100"})
	}
	if c.HasErrors() {
		WriteError(w, http.StatusBadRequest, KindValidation, c.Message())
		return
	}

	threshold := types.DefaultSuccessThreshold
	if req.SuccessThreshold != nil {
		threshold = *req.SuccessThreshold
	}

	goal := &types.ProductivityGoal{
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		GoalType:    types.GoalType(req.GoalType),
		Target: types.TargetMetric{
			Name:        req.Target.Name,
			TargetValue: req.Target.TargetValue,
			Unit:        req.Target.Unit,
		},
		Period: types.GoalPeriod{
			StartDate:  req.Period.StartDate.UTC(),
			EndDate:    req.Period.EndDate.UTC(),
			PeriodType: types.PeriodType(req.Period.PeriodType),
		},
		SuccessThreshold: threshold,
		Status:           types.GoalActive,
	}

	if err := h.store.CreateGoal(r.Context(), goal); err != nil {
		slog.Error("goal create failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, goalResponse{Success: true, Goal: goal})
}

// GetGoal handles GET /api/v1/productivity-goals/{id}
func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	goal, err := h.store.GetGoal(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, goalResponse{Success: true, Goal: goal})
}

// ListGoals handles GET /api/v1/productivity-goals
func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	status := r.URL.Query().Get("status")
	if status != "" {
		if err := validation.ValidateEnum("status", status, types.GoalStatuses); err != nil {
			WriteError(w, http.StatusBadRequest, KindValidation, err.Error())
			return
		}
	}

	goals, err := h.store.ListGoals(r.Context(), ownerID)
	if err != nil {
		slog.Error("goal list failed", "error", err, "owner_id", ownerID)
		MapStoreError(w, err)
		return
	}

	if status != "" {
		filtered := goals[:0]
		for _, g := range goals {
			if g.Status == types.GoalStatus(status) {
				filtered = append(filtered, g)
			}
		}
		goals = filtered
	}

	if goals == nil {
		goals = []types.ProductivityGoal{}
	}
	WriteJSON(w, http.StatusOK, goalsResponse{Success: true, Goals: goals})
}

// GoalProgress handles POST /api/v1/productivity-goals/{id}/progress
func (h *Handler) GoalProgress(w http.ResponseWriter, r *http.Request) {
	ownerID := MustOwnerFromContext(r.Context())

	var req types.GoalProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, KindValidation, fmt.Sprintf("Invalid JSON: %s", err))
		return
	}

	if req.NewValue == nil {
		WriteError(w, http.StatusBadRequest, KindValidation, "newValue is required")
		return
	}
	if *req.NewValue < 0 {
		WriteError(w, http.StatusBadRequest, KindValidation, "newValue must not be negative")
		return
	}

	goal, err := h.store.GetGoal(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, err)
		return
	}

	goal.ApplyProgress(*req.NewValue, req.Notes, time.Now().UTC())

	if err := h.store.UpdateGoal(r.Context(), goal); err != nil {
		slog.Error("goal progress update failed", "error", err, "goal_id", goal.ID)
		MapStoreError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, goalResponse{Success: true, Goal: goal})
}
