package types

import (
	"encoding/json"
	"math"
	"time"
)

// Priority ranks how pressing a task is.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Priorities lists every valid priority value for boundary validation.
var Priorities = []string{
	string(PriorityCritical),
	string(PriorityHigh),
	string(PriorityMedium),
	string(PriorityLow),
}

// Weight maps priority to its urgency contribution (critical=4 .. low=1).
func (p Priority) Weight() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// TaskStatus represents the lifecycle state of a unit of planned work.
type TaskStatus string

const (
	TaskNotStarted TaskStatus = "not_started"
	TaskInProgress TaskStatus = "in_progress"
	TaskPaused     TaskStatus = "paused"
	TaskCompleted  TaskStatus = "completed"
	TaskDeferred   TaskStatus = "deferred"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists every valid task status for boundary validation.
var TaskStatuses = []string{
	string(TaskNotStarted),
	string(TaskInProgress),
	string(TaskPaused),
	string(TaskCompleted),
	string(TaskDeferred),
	string(TaskCancelled),
}

// Recurrence describes an optional repetition schedule for a task.
type Recurrence struct {
	Frequency string     `json:"frequency"` // daily, weekly, monthly
	Interval  int        `json:"interval"`
	Until     *time.Time `json:"until,omitempty"`
}

// ProductivityMetrics is the rolled-up measurement block mutated exclusively
// through progress updates, never by generic field updates.
type ProductivityMetrics struct {
	TotalTimeSpentMin       int     `json:"totalTimeSpentInMinutes"`
	EffectiveProductiveTime int     `json:"effectiveProductiveTime"`
	AverageFocusScore       float64 `json:"averageFocusScore"`
	FocusSampleCount        int     `json:"focusSampleCount"`
	CompletionEfficiency    float64 `json:"completionEfficiency"`
	InterruptionsCount      int     `json:"interruptionsCount"`
	EstimatedAccuracy       float64 `json:"estimatedAccuracy"`
}

// UserTask is a unit of planned work with rolled-up productivity metrics.
type UserTask struct {
	ID                    string              `json:"id"`
	OwnerID               string              `json:"ownerId"`
	Title                 string              `json:"title"`
	Description           string              `json:"description,omitempty"`
	Category              Category            `json:"category"`
	Priority              Priority            `json:"priority"`
	Difficulty            int                 `json:"difficulty"`
	EstimatedDurationMin  int                 `json:"estimatedDurationInMinutes"`
	PlannedStartDate      *time.Time          `json:"plannedStartDate,omitempty"`
	PlannedCompletionDate *time.Time          `json:"plannedCompletionDate,omitempty"`
	ActualStartDate       *time.Time          `json:"actualStartDate,omitempty"`
	ActualCompletionDate  *time.Time          `json:"actualCompletionDate,omitempty"`
	Deadline              *time.Time          `json:"deadline,omitempty"`
	Status                TaskStatus          `json:"status"`
	CompletionPercentage  int                 `json:"completionPercentage"`
	Tags                  []string            `json:"tags"`
	Metrics               ProductivityMetrics `json:"productivityMetrics"`
	CompletionStreak      int                 `json:"completionStreak"`
	UserRating            *int                `json:"userRating,omitempty"`
	Feedback              string              `json:"feedback,omitempty"`
	Recurrence            *Recurrence         `json:"recurrence,omitempty"`
	ParentTaskID          *string             `json:"parentTaskId,omitempty"`
	LastActivityAt        *time.Time          `json:"lastActivityAt,omitempty"`
	CreatedAt             time.Time           `json:"createdAt"`
	UpdatedAt             time.Time           `json:"updatedAt"`
}

// ProgressUpdate is the single mutation path into a task's metrics block.
type ProgressUpdate struct {
	TimeSpentMin  int
	ProductiveMin *int // defaults to TimeSpentMin when nil
	FocusScore    *int
	Interruptions int
	IsCompleted   bool
	UserRating    *int
	Feedback      string
}

// ApplyProgress folds one progress contribution into the task's aggregate
// metrics and recomputes the derived efficiency figures.
//
// The focus running mean advances only when a focus score is supplied; the
// sample counter is tracked separately from the number of progress updates so
// score-less updates cannot dilute the mean.
func (t *UserTask) ApplyProgress(p ProgressUpdate, now time.Time) {
	t.Metrics.TotalTimeSpentMin += p.TimeSpentMin

	productive := p.TimeSpentMin
	if p.ProductiveMin != nil {
		productive = *p.ProductiveMin
	}
	t.Metrics.EffectiveProductiveTime += productive
	t.Metrics.InterruptionsCount += p.Interruptions

	if p.FocusScore != nil {
		n := float64(t.Metrics.FocusSampleCount)
		t.Metrics.AverageFocusScore = (t.Metrics.AverageFocusScore*n + float64(*p.FocusScore)) / (n + 1)
		t.Metrics.FocusSampleCount++
	}

	if t.Status == TaskNotStarted && p.TimeSpentMin > 0 {
		t.Status = TaskInProgress
		if t.ActualStartDate == nil {
			started := now
			t.ActualStartDate = &started
		}
	}

	if p.IsCompleted {
		t.Status = TaskCompleted
		t.CompletionPercentage = 100
		completed := now
		t.ActualCompletionDate = &completed
		t.CompletionStreak++
	}

	if p.UserRating != nil {
		t.UserRating = p.UserRating
	}
	if p.Feedback != "" {
		t.Feedback = p.Feedback
	}

	t.recomputeDerivedMetrics()
	activity := now
	t.LastActivityAt = &activity
}

// recomputeDerivedMetrics refreshes the efficiency figures that are only
// meaningful once time has actually been tracked against the task.
func (t *UserTask) recomputeDerivedMetrics() {
	if t.Metrics.TotalTimeSpentMin <= 0 || t.EstimatedDurationMin <= 0 {
		return
	}

	est := float64(t.EstimatedDurationMin)
	actual := float64(t.Metrics.TotalTimeSpentMin)

	t.Metrics.CompletionEfficiency = est / actual * 100

	accuracy := (est - math.Abs(actual-est)) / est * 100
	if accuracy < 0 {
		accuracy = 0
	}
	t.Metrics.EstimatedAccuracy = accuracy
}

// IsOverdue reports whether the deadline has passed without completion.
func (t *UserTask) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && t.Status != TaskCompleted
}

// DaysUntilDeadline returns whole days remaining until the deadline, negative
// when overdue, or nil when no deadline is set.
func (t *UserTask) DaysUntilDeadline(now time.Time) *int {
	if t.Deadline == nil {
		return nil
	}
	days := int(math.Ceil(t.Deadline.Sub(now).Hours() / 24))
	return &days
}

// ProductivityScore is a 0-100 composite of completion, focus, efficiency and
// estimation accuracy (weighted 40/30/20/10).
func (t *UserTask) ProductivityScore() int {
	completion := float64(t.CompletionPercentage)
	focus := t.Metrics.AverageFocusScore / 5 * 100
	efficiency := math.Min(t.Metrics.CompletionEfficiency, 200) / 200 * 100
	accuracy := t.Metrics.EstimatedAccuracy

	score := 0.4*completion + 0.3*focus + 0.2*efficiency + 0.1*accuracy
	return int(math.Round(score))
}

// UrgencyScore ranks the task 0-10 from priority, deadline proximity and
// status, capped at 10.
func (t *UserTask) UrgencyScore(now time.Time) int {
	score := t.Priority.Weight()

	if t.Deadline != nil {
		switch remaining := t.Deadline.Sub(now); {
		case remaining < 0:
			score += 4
		case remaining <= 24*time.Hour:
			score += 3
		case remaining <= 3*24*time.Hour:
			score += 2
		case remaining <= 7*24*time.Hour:
			score += 1
		}
	}

	switch t.Status {
	case TaskInProgress:
		score += 2
	case TaskNotStarted:
		score += 1
	}

	if score > 10 {
		score = 10
	}
	return score
}

// MarshalJSON ensures nil slices in UserTask marshal as [] not null.
func (t UserTask) MarshalJSON() ([]byte, error) {
	if t.Tags == nil {
		t.Tags = []string{}
	}
	type Alias UserTask
	return json.Marshal(Alias(t))
}

// TaskSummary aggregates a user's tasks for the summary endpoint.
type TaskSummary struct {
	TotalTasks               int            `json:"totalTasks"`
	ByStatus                 map[string]int `json:"byStatus"`
	ByCategory               map[string]int `json:"byCategory"`
	ByPriority               map[string]int `json:"byPriority"`
	TotalEstimatedMin        int            `json:"totalEstimatedMinutes"`
	TotalActualMin           int            `json:"totalActualMinutes"`
	AverageProductivityScore int            `json:"averageProductivityScore"`
	OverdueTasks             int            `json:"overdueTasks"`
}

// BuildTaskSummary reduces a user's tasks into status, category and priority
// counts plus the mean productivity score over completed tasks only.
func BuildTaskSummary(tasks []UserTask, now time.Time) TaskSummary {
	s := TaskSummary{
		TotalTasks: len(tasks),
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
		ByPriority: map[string]int{},
	}

	completedScoreSum := 0
	completedCount := 0

	for i := range tasks {
		t := &tasks[i]
		s.ByStatus[string(t.Status)]++
		s.ByCategory[string(t.Category)]++
		s.ByPriority[string(t.Priority)]++
		s.TotalEstimatedMin += t.EstimatedDurationMin
		s.TotalActualMin += t.Metrics.TotalTimeSpentMin
		if t.IsOverdue(now) {
			s.OverdueTasks++
		}
		if t.Status == TaskCompleted {
			completedScoreSum += t.ProductivityScore()
			completedCount++
		}
	}

	if completedCount > 0 {
		s.AverageProductivityScore = int(math.Round(float64(completedScoreSum) / float64(completedCount)))
	}

	return s
}
