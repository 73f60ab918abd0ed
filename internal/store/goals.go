package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/focalhq/focal/internal/types"
	"github.com/oklog/ulid/v2"
)

const goalColumns = `id, owner_id, title, description, goal_type, metric_name,
	target_value, current_value, unit, period_start, period_end, period_type,
	completion_percentage, daily_progress, last_updated, success_threshold,
	status, created_at, updated_at`

// CreateGoal persists a new productivity goal, assigning its ID and audit fields.
func (s *SQLiteStore) CreateGoal(ctx context.Context, g *types.ProductivityGoal) error {
	now := time.Now().UTC()
	g.ID = ulid.Make().String()
	g.CreatedAt = now
	g.UpdatedAt = now

	progressJSON, err := marshalGoalProgress(g)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO productivity_goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		g.ID, g.OwnerID, g.Title, g.Description, string(g.GoalType), g.Target.Name,
		g.Target.TargetValue, g.Target.CurrentValue, g.Target.Unit,
		formatTime(g.Period.StartDate), formatTime(g.Period.EndDate), string(g.Period.PeriodType),
		g.Progress.CompletionPercentage, progressJSON, formatTimePtr(g.Progress.LastUpdated),
		g.SuccessThreshold, string(g.Status), formatTime(g.CreatedAt), formatTime(g.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}

	return nil
}

// GetGoal retrieves a goal by id, scoped to its owner.
func (s *SQLiteStore) GetGoal(ctx context.Context, ownerID, id string) (*types.ProductivityGoal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+goalColumns+`
		FROM productivity_goals
		WHERE id = ? AND owner_id = ?
	`, id, ownerID)

	goal, err := scanGoal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan goal: %w", err)
	}

	return goal, nil
}

// UpdateGoal persists the mutable fields of an existing goal.
func (s *SQLiteStore) UpdateGoal(ctx context.Context, g *types.ProductivityGoal) error {
	g.UpdatedAt = time.Now().UTC()

	progressJSON, err := marshalGoalProgress(g)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE productivity_goals
		SET title = ?, description = ?, goal_type = ?, metric_name = ?, target_value = ?,
		    current_value = ?, unit = ?, period_start = ?, period_end = ?, period_type = ?,
		    completion_percentage = ?, daily_progress = ?, last_updated = ?,
		    success_threshold = ?, status = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`,
		g.Title, g.Description, string(g.GoalType), g.Target.Name, g.Target.TargetValue,
		g.Target.CurrentValue, g.Target.Unit,
		formatTime(g.Period.StartDate), formatTime(g.Period.EndDate), string(g.Period.PeriodType),
		g.Progress.CompletionPercentage, progressJSON, formatTimePtr(g.Progress.LastUpdated),
		g.SuccessThreshold, string(g.Status), formatTime(g.UpdatedAt),
		g.ID, g.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListGoals returns all of an owner's goals, newest first.
func (s *SQLiteStore) ListGoals(ctx context.Context, ownerID string) ([]types.ProductivityGoal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+goalColumns+`
		FROM productivity_goals
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []types.ProductivityGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}

	return goals, nil
}

// scanGoal scans a row into a ProductivityGoal, handling JSON and timestamps.
func scanGoal(scanner interface{ Scan(...any) error }) (*types.ProductivityGoal, error) {
	var g types.ProductivityGoal
	var goalType, periodType, status string
	var periodStart, periodEnd string
	var progressJSON string
	var lastUpdated sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&g.ID, &g.OwnerID, &g.Title, &g.Description, &goalType, &g.Target.Name,
		&g.Target.TargetValue, &g.Target.CurrentValue, &g.Target.Unit,
		&periodStart, &periodEnd, &periodType,
		&g.Progress.CompletionPercentage, &progressJSON, &lastUpdated,
		&g.SuccessThreshold, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	g.GoalType = types.GoalType(goalType)
	g.Period.PeriodType = types.PeriodType(periodType)
	g.Status = types.GoalStatus(status)
	var tp timeParser
	g.Period.StartDate = tp.parse(periodStart)
	g.Period.EndDate = tp.parse(periodEnd)
	g.Progress.LastUpdated = tp.parsePtr(lastUpdated)
	g.CreatedAt = tp.parse(createdAt)
	g.UpdatedAt = tp.parse(updatedAt)
	if tp.err != nil {
		return nil, tp.err
	}

	if progressJSON != "" {
		if err := json.Unmarshal([]byte(progressJSON), &g.Progress.DailyProgress); err != nil {
			return nil, fmt.Errorf("parse progress JSON: %w", err)
		}
	}

	return &g, nil
}

func marshalGoalProgress(g *types.ProductivityGoal) (string, error) {
	snapshots := g.Progress.DailyProgress
	if snapshots == nil {
		snapshots = []types.ProgressSnapshot{}
	}
	b, err := json.Marshal(snapshots)
	if err != nil {
		return "", fmt.Errorf("marshal progress snapshots: %w", err)
	}
	return string(b), nil
}
