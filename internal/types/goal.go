package types

import (
	"encoding/json"
	"time"
)

// GoalType classifies what a productivity goal measures.
type GoalType string

const (
	GoalDailyFocusTime       GoalType = "daily_focus_time"
	GoalWeeklyTaskCompletion GoalType = "weekly_task_completion"
	GoalFocusImprovement     GoalType = "focus_improvement"
	GoalTimeAllocation       GoalType = "time_allocation"
	GoalStreakMaintenance    GoalType = "streak_maintenance"
	GoalCustom               GoalType = "custom"
)

// GoalTypes lists every valid goal type for boundary validation.
var GoalTypes = []string{
	string(GoalDailyFocusTime),
	string(GoalWeeklyTaskCompletion),
	string(GoalFocusImprovement),
	string(GoalTimeAllocation),
	string(GoalStreakMaintenance),
	string(GoalCustom),
}

// PeriodType bounds the measurement window of a goal.
type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodWeekly  PeriodType = "weekly"
	PeriodMonthly PeriodType = "monthly"
	PeriodCustom  PeriodType = "custom"
)

// PeriodTypes lists every valid period type for boundary validation.
var PeriodTypes = []string{
	string(PeriodDaily),
	string(PeriodWeekly),
	string(PeriodMonthly),
	string(PeriodCustom),
}

// GoalStatus represents the progress state of a goal.
type GoalStatus string

const (
	GoalActive          GoalStatus = "active"
	GoalCompleted       GoalStatus = "completed"
	GoalBehindSchedule  GoalStatus = "behind_schedule"
	GoalAheadOfSchedule GoalStatus = "ahead_of_schedule"
	GoalAbandoned       GoalStatus = "abandoned"
)

// GoalStatuses lists every valid goal status for boundary validation.
var GoalStatuses = []string{
	string(GoalActive),
	string(GoalCompleted),
	string(GoalBehindSchedule),
	string(GoalAheadOfSchedule),
	string(GoalAbandoned),
}

// trackedGoalStatuses are the statuses counted toward dashboard goal achievement.
var trackedGoalStatuses = map[GoalStatus]bool{
	GoalActive:          true,
	GoalCompleted:       true,
	GoalAheadOfSchedule: true,
	GoalBehindSchedule:  true,
}

// Tracked reports whether the goal status contributes to achievement stats.
func (s GoalStatus) Tracked() bool {
	return trackedGoalStatuses[s]
}

// TargetMetric names the measured value and its target.
type TargetMetric struct {
	Name         string  `json:"name"`
	TargetValue  float64 `json:"targetValue"`
	CurrentValue float64 `json:"currentValue"`
	Unit         string  `json:"unit"`
}

// GoalPeriod is the bounded time window the goal is measured against.
type GoalPeriod struct {
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	PeriodType PeriodType `json:"periodType"`
}

// ProgressSnapshot is one dated progress observation.
type ProgressSnapshot struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Notes string    `json:"notes,omitempty"`
}

// ProgressData accumulates the goal's progress history.
type ProgressData struct {
	CompletionPercentage float64            `json:"completionPercentage"`
	DailyProgress        []ProgressSnapshot `json:"dailyProgress"`
	LastUpdated          *time.Time         `json:"lastUpdated,omitempty"`
}

// DefaultSuccessThreshold is the completion percentage at which a goal counts
// as achieved unless the owner overrides it.
const DefaultSuccessThreshold = 80.0

// ProductivityGoal is a target metric measured over a time window.
type ProductivityGoal struct {
	ID               string       `json:"id"`
	OwnerID          string       `json:"ownerId"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	GoalType         GoalType     `json:"goalType"`
	Target           TargetMetric `json:"targetMetrics"`
	Period           GoalPeriod   `json:"goalPeriod"`
	Progress         ProgressData `json:"progressData"`
	SuccessThreshold float64      `json:"successThreshold"`
	Status           GoalStatus   `json:"goalStatus"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// ApplyProgress records a new current value, appends a dated snapshot and
// recomputes completion percentage and status.
func (g *ProductivityGoal) ApplyProgress(value float64, notes string, now time.Time) {
	g.Target.CurrentValue = value

	pct := 0.0
	if g.Target.TargetValue > 0 {
		pct = value / g.Target.TargetValue * 100
	}
	g.Progress.CompletionPercentage = pct
	g.Progress.DailyProgress = append(g.Progress.DailyProgress, ProgressSnapshot{
		Date:  now,
		Value: value,
		Notes: notes,
	})
	updated := now
	g.Progress.LastUpdated = &updated

	g.Status = ComputeGoalStatus(pct, g.SuccessThreshold, g.Period.StartDate, g.Status, now)
}

// ComputeGoalStatus is the pure status transition function, re-evaluated from
// scratch on every save so it self-corrects as the clock advances.
// Abandoned goals never resurrect.
func ComputeGoalStatus(pct, threshold float64, periodStart time.Time, current GoalStatus, now time.Time) GoalStatus {
	if current == GoalAbandoned {
		return GoalAbandoned
	}
	switch {
	case pct >= threshold:
		return GoalCompleted
	case now.After(periodStart) && pct < 50:
		return GoalBehindSchedule
	case pct > 70:
		return GoalAheadOfSchedule
	default:
		return GoalActive
	}
}

// MarshalJSON ensures nil snapshot slices marshal as [] not null.
func (g ProductivityGoal) MarshalJSON() ([]byte, error) {
	if g.Progress.DailyProgress == nil {
		g.Progress.DailyProgress = []ProgressSnapshot{}
	}
	type Alias ProductivityGoal
	return json.Marshal(Alias(g))
}
