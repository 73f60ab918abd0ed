package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/focalhq/focal/internal/types"
)

func newTask(owner string) *types.UserTask {
	return &types.UserTask{
		OwnerID:              owner,
		Title:                "Write thesis chapter",
		Category:             types.CategoryAcademicStudies,
		Priority:             types.PriorityHigh,
		Status:               types.TaskNotStarted,
		EstimatedDurationMin: 120,
	}
}

func TestCreateTask_RoundTrip(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	deadline := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	task := newTask("owner-1")
	task.Description = "Draft the methods section"
	task.Difficulty = 4
	task.Deadline = &deadline
	task.Tags = []string{"thesis"}
	task.Recurrence = &types.Recurrence{Frequency: "weekly", Interval: 1}

	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}
	if task.ID == "" {
		t.Fatal("expected ID to be assigned")
	}

	got, err := db.GetTask(ctx, "owner-1", task.ID)
	if err != nil {
		t.Fatal(err)
	}

	if got.Title != task.Title || got.Description != task.Description {
		t.Errorf("got %+v", got)
	}
	if got.Category != types.CategoryAcademicStudies || got.Priority != types.PriorityHigh {
		t.Errorf("category/priority = %s/%s", got.Category, got.Priority)
	}
	if got.Difficulty != 4 || got.EstimatedDurationMin != 120 {
		t.Errorf("difficulty/estimate = %d/%d", got.Difficulty, got.EstimatedDurationMin)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) {
		t.Errorf("Deadline = %v", got.Deadline)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "thesis" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.Recurrence == nil || got.Recurrence.Frequency != "weekly" {
		t.Errorf("Recurrence = %+v", got.Recurrence)
	}
}

func TestUpdateTask_PersistsMetricsBlock(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	task := newTask("owner-1")
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	score := 4
	task.ApplyProgress(types.ProgressUpdate{TimeSpentMin: 60, FocusScore: &score}, time.Now().UTC())
	if err := db.UpdateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	got, err := db.GetTask(ctx, "owner-1", task.ID)
	if err != nil {
		t.Fatal(err)
	}

	if got.Metrics.TotalTimeSpentMin != 60 {
		t.Errorf("TotalTimeSpentMin = %d, want 60", got.Metrics.TotalTimeSpentMin)
	}
	if got.Metrics.AverageFocusScore != 4 || got.Metrics.FocusSampleCount != 1 {
		t.Errorf("focus metrics = %v/%d", got.Metrics.AverageFocusScore, got.Metrics.FocusSampleCount)
	}
	if got.Status != types.TaskInProgress {
		t.Errorf("Status = %s, want in_progress", got.Status)
	}
	if got.LastActivityAt == nil {
		t.Error("LastActivityAt not persisted")
	}
}

func TestUpdateTask_MissingReturnsNotFound(t *testing.T) {
	db := newTestStore(t)

	task := newTask("owner-1")
	task.ID = "01HTESTMISSING0000000000AB"

	if err := db.UpdateTask(context.Background(), task); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTask(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	task := newTask("owner-1")
	if err := db.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	if err := db.DeleteTask(ctx, "owner-1", task.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := db.GetTask(ctx, "owner-1", task.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after delete", err)
	}
}

func TestListTasks_Filters(t *testing.T) {
	db := newTestStore(t)
	ctx := context.Background()

	a := newTask("owner-1")
	if err := db.CreateTask(ctx, a); err != nil {
		t.Fatal(err)
	}

	b := newTask("owner-1")
	b.Category = types.CategoryHousehold
	b.Priority = types.PriorityLow
	b.Status = types.TaskCompleted
	if err := db.CreateTask(ctx, b); err != nil {
		t.Fatal(err)
	}

	c := newTask("owner-2")
	if err := db.CreateTask(ctx, c); err != nil {
		t.Fatal(err)
	}

	all, err := db.ListTasks(ctx, "owner-1", types.TaskQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("len = %d, want 2", len(all))
	}

	completed, err := db.ListTasks(ctx, "owner-1", types.TaskQuery{Status: string(types.TaskCompleted)})
	if err != nil {
		t.Fatal(err)
	}
	if len(completed) != 1 || completed[0].ID != b.ID {
		t.Errorf("status filter returned %d tasks", len(completed))
	}

	household, err := db.ListTasks(ctx, "owner-1", types.TaskQuery{
		Category: string(types.CategoryHousehold),
		Priority: string(types.PriorityLow),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(household) != 1 || household[0].ID != b.ID {
		t.Errorf("combined filter returned %d tasks", len(household))
	}
}
