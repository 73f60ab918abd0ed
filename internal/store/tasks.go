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

const taskColumns = `id, owner_id, title, description, category, priority, difficulty,
	estimated_duration_min, planned_start_date, planned_completion_date,
	actual_start_date, actual_completion_date, deadline, status, completion_percentage,
	tags, total_time_spent_min, effective_productive_min, average_focus_score,
	focus_sample_count, completion_efficiency, interruptions_count, estimated_accuracy,
	completion_streak, user_rating, feedback, recurrence, parent_task_id,
	last_activity_at, created_at, updated_at`

// CreateTask persists a new task, assigning its ID and audit fields.
func (s *SQLiteStore) CreateTask(ctx context.Context, t *types.UserTask) error {
	now := time.Now().UTC()
	t.ID = ulid.Make().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	tagsJSON, recurrenceJSON, err := marshalTaskBlobs(t)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.OwnerID, t.Title, t.Description, string(t.Category), string(t.Priority), t.Difficulty,
		t.EstimatedDurationMin, formatTimePtr(t.PlannedStartDate), formatTimePtr(t.PlannedCompletionDate),
		formatTimePtr(t.ActualStartDate), formatTimePtr(t.ActualCompletionDate), formatTimePtr(t.Deadline),
		string(t.Status), t.CompletionPercentage,
		tagsJSON, t.Metrics.TotalTimeSpentMin, t.Metrics.EffectiveProductiveTime, t.Metrics.AverageFocusScore,
		t.Metrics.FocusSampleCount, t.Metrics.CompletionEfficiency, t.Metrics.InterruptionsCount, t.Metrics.EstimatedAccuracy,
		t.CompletionStreak, nullableInt(t.UserRating), t.Feedback, recurrenceJSON, nullableString(t.ParentTaskID),
		formatTimePtr(t.LastActivityAt), formatTime(t.CreatedAt), formatTime(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	return nil
}

// GetTask retrieves a task by id, scoped to its owner.
func (s *SQLiteStore) GetTask(ctx context.Context, ownerID, id string) (*types.UserTask, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM user_tasks
		WHERE id = ? AND owner_id = ?
	`, id, ownerID)

	task, err := scanTask(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	return task, nil
}

// UpdateTask persists the mutable fields of an existing task, including the
// metrics block (callers mutate metrics only via ApplyProgress).
func (s *SQLiteStore) UpdateTask(ctx context.Context, t *types.UserTask) error {
	t.UpdatedAt = time.Now().UTC()

	tagsJSON, recurrenceJSON, err := marshalTaskBlobs(t)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE user_tasks
		SET title = ?, description = ?, category = ?, priority = ?, difficulty = ?,
		    estimated_duration_min = ?, planned_start_date = ?, planned_completion_date = ?,
		    actual_start_date = ?, actual_completion_date = ?, deadline = ?, status = ?,
		    completion_percentage = ?, tags = ?, total_time_spent_min = ?,
		    effective_productive_min = ?, average_focus_score = ?, focus_sample_count = ?,
		    completion_efficiency = ?, interruptions_count = ?, estimated_accuracy = ?,
		    completion_streak = ?, user_rating = ?, feedback = ?, recurrence = ?,
		    parent_task_id = ?, last_activity_at = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?
	`,
		t.Title, t.Description, string(t.Category), string(t.Priority), t.Difficulty,
		t.EstimatedDurationMin, formatTimePtr(t.PlannedStartDate), formatTimePtr(t.PlannedCompletionDate),
		formatTimePtr(t.ActualStartDate), formatTimePtr(t.ActualCompletionDate), formatTimePtr(t.Deadline),
		string(t.Status), t.CompletionPercentage, tagsJSON, t.Metrics.TotalTimeSpentMin,
		t.Metrics.EffectiveProductiveTime, t.Metrics.AverageFocusScore, t.Metrics.FocusSampleCount,
		t.Metrics.CompletionEfficiency, t.Metrics.InterruptionsCount, t.Metrics.EstimatedAccuracy,
		t.CompletionStreak, nullableInt(t.UserRating), t.Feedback, recurrenceJSON,
		nullableString(t.ParentTaskID), formatTimePtr(t.LastActivityAt), formatTime(t.UpdatedAt),
		t.ID, t.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
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

// DeleteTask hard-deletes a task.
func (s *SQLiteStore) DeleteTask(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM user_tasks WHERE id = ? AND owner_id = ?
	`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
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

// ListTasks returns the owner's tasks, optionally filtered by status,
// category and priority, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, ownerID string, q types.TaskQuery) ([]types.UserTask, error) {
	where := "owner_id = ?"
	args := []any{ownerID}

	if q.Status != "" {
		where += " AND status = ?"
		args = append(args, q.Status)
	}
	if q.Category != "" {
		where += " AND category = ?"
		args = append(args, q.Category)
	}
	if q.Priority != "" {
		where += " AND priority = ?"
		args = append(args, q.Priority)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM user_tasks
		WHERE `+where+`
		ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.UserTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// scanTask scans a row into a UserTask, handling JSON blobs and timestamps.
func scanTask(scanner interface{ Scan(...any) error }) (*types.UserTask, error) {
	var t types.UserTask
	var category, priority, status string
	var plannedStart, plannedCompletion, actualStart, actualCompletion sql.NullString
	var deadline, lastActivity sql.NullString
	var tagsJSON string
	var recurrenceJSON, parentTaskID sql.NullString
	var userRating sql.NullInt64
	var createdAt, updatedAt string

	err := scanner.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &category, &priority, &t.Difficulty,
		&t.EstimatedDurationMin, &plannedStart, &plannedCompletion,
		&actualStart, &actualCompletion, &deadline, &status, &t.CompletionPercentage,
		&tagsJSON, &t.Metrics.TotalTimeSpentMin, &t.Metrics.EffectiveProductiveTime, &t.Metrics.AverageFocusScore,
		&t.Metrics.FocusSampleCount, &t.Metrics.CompletionEfficiency, &t.Metrics.InterruptionsCount, &t.Metrics.EstimatedAccuracy,
		&t.CompletionStreak, &userRating, &t.Feedback, &recurrenceJSON, &parentTaskID,
		&lastActivity, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Category = types.Category(category)
	t.Priority = types.Priority(priority)
	t.Status = types.TaskStatus(status)
	var tp timeParser
	t.PlannedStartDate = tp.parsePtr(plannedStart)
	t.PlannedCompletionDate = tp.parsePtr(plannedCompletion)
	t.ActualStartDate = tp.parsePtr(actualStart)
	t.ActualCompletionDate = tp.parsePtr(actualCompletion)
	t.Deadline = tp.parsePtr(deadline)
	t.LastActivityAt = tp.parsePtr(lastActivity)
	t.CreatedAt = tp.parse(createdAt)
	t.UpdatedAt = tp.parse(updatedAt)
	if tp.err != nil {
		return nil, tp.err
	}

	if userRating.Valid {
		rating := int(userRating.Int64)
		t.UserRating = &rating
	}
	if parentTaskID.Valid && parentTaskID.String != "" {
		parent := parentTaskID.String
		t.ParentTaskID = &parent
	}

	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
			return nil, fmt.Errorf("parse tags JSON: %w", err)
		}
	}
	if recurrenceJSON.Valid && recurrenceJSON.String != "" {
		var rec types.Recurrence
		if err := json.Unmarshal([]byte(recurrenceJSON.String), &rec); err != nil {
			return nil, fmt.Errorf("parse recurrence JSON: %w", err)
		}
		t.Recurrence = &rec
	}

	return &t, nil
}

func marshalTaskBlobs(t *types.UserTask) (tags string, recurrence any, err error) {
	tg := t.Tags
	if tg == nil {
		tg = []string{}
	}
	tagBytes, err := json.Marshal(tg)
	if err != nil {
		return "", nil, fmt.Errorf("marshal tags: %w", err)
	}

	if t.Recurrence == nil {
		return string(tagBytes), nil, nil
	}
	recBytes, err := json.Marshal(t.Recurrence)
	if err != nil {
		return "", nil, fmt.Errorf("marshal recurrence: %w", err)
	}

	return string(tagBytes), string(recBytes), nil
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}
