package types

import "time"

// StartEntryRequest begins a tracked session. Supplying an end timestamp
// creates a back-dated, already-completed entry.
type StartEntryRequest struct {
	TaskID     string     `json:"taskId"`
	Title      string     `json:"title,omitempty"`
	StartedAt  *time.Time `json:"startTimestamp,omitempty"`
	EndedAt    *time.Time `json:"endTimestamp,omitempty"`
	FocusScore *int       `json:"focusScore,omitempty"`
	Tags       []string   `json:"productivityTags,omitempty"`
	Notes      string     `json:"additionalNotes,omitempty"`
}

// StopEntryRequest finalizes an active session.
type StopEntryRequest struct {
	EndedAt    *time.Time `json:"endTimestamp,omitempty"`
	FocusScore *int       `json:"focusScore,omitempty"`
	Notes      string     `json:"additionalNotes,omitempty"`
}

// UpdateEntryRequest carries a generic field update. Identity and audit
// fields are never updatable.
type UpdateEntryRequest struct {
	Title      *string    `json:"title,omitempty"`
	StartedAt  *time.Time `json:"startTimestamp,omitempty"`
	EndedAt    *time.Time `json:"endTimestamp,omitempty"`
	FocusScore *int       `json:"focusScore,omitempty"`
	Tags       []string   `json:"productivityTags,omitempty"`
	Notes      *string    `json:"additionalNotes,omitempty"`
}

// LogInterruptionRequest appends an interruption to an active entry.
type LogInterruptionRequest struct {
	Reason       string     `json:"reason"`
	StartedAt    *time.Time `json:"startTimestamp,omitempty"`
	EndedAt      *time.Time `json:"endTimestamp,omitempty"`
	DurationMin  *int       `json:"durationInMinutes,omitempty"`
	WasNecessary bool       `json:"wasNecessary,omitempty"`
}

// EntryQuery filters and paginates an owner's entry listing.
type EntryQuery struct {
	StartDate            *time.Time
	EndDate              *time.Time
	TaskID               string
	MinFocusScore        *int
	Page                 int
	Limit                int
	SortBy               string
	SortOrder            string
	IncludeInterruptions bool
}

// ListMeta carries pagination metadata for list responses.
type ListMeta struct {
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"hasMore"`
}

// CreateTaskRequest creates a unit of planned work.
type CreateTaskRequest struct {
	Title                 string      `json:"title"`
	Description           string      `json:"description,omitempty"`
	Category              string      `json:"category"`
	Priority              string      `json:"priority,omitempty"`
	Difficulty            *int        `json:"difficulty,omitempty"`
	EstimatedDurationMin  int         `json:"estimatedDurationInMinutes"`
	PlannedStartDate      *time.Time  `json:"plannedStartDate,omitempty"`
	PlannedCompletionDate *time.Time  `json:"plannedCompletionDate,omitempty"`
	Deadline              *time.Time  `json:"deadline,omitempty"`
	Tags                  []string    `json:"tags,omitempty"`
	Recurrence            *Recurrence `json:"recurrence,omitempty"`
	ParentTaskID          *string     `json:"parentTaskId,omitempty"`
}

// UpdateTaskRequest carries a generic task field update. The metrics block is
// excluded: it moves only through the progress operation.
type UpdateTaskRequest struct {
	Title                 *string     `json:"title,omitempty"`
	Description           *string     `json:"description,omitempty"`
	Category              *string     `json:"category,omitempty"`
	Priority              *string     `json:"priority,omitempty"`
	Difficulty            *int        `json:"difficulty,omitempty"`
	EstimatedDurationMin  *int        `json:"estimatedDurationInMinutes,omitempty"`
	PlannedStartDate      *time.Time  `json:"plannedStartDate,omitempty"`
	PlannedCompletionDate *time.Time  `json:"plannedCompletionDate,omitempty"`
	Deadline              *time.Time  `json:"deadline,omitempty"`
	Status                *string     `json:"status,omitempty"`
	CompletionPercentage  *int        `json:"completionPercentage,omitempty"`
	Tags                  []string    `json:"tags,omitempty"`
	Recurrence            *Recurrence `json:"recurrence,omitempty"`
}

// TaskProgressRequest feeds a progress contribution into a task.
type TaskProgressRequest struct {
	TimeSpentMin int    `json:"timeSpentInMinutes"`
	FocusScore   *int   `json:"focusScore,omitempty"`
	IsCompleted  bool   `json:"isCompleted,omitempty"`
	UserRating   *int   `json:"userRating,omitempty"`
	Feedback     string `json:"feedback,omitempty"`
}

// TaskQuery filters an owner's task listing.
type TaskQuery struct {
	Status   string
	Category string
	Priority string
}

// CreateGoalRequest creates a productivity goal.
type CreateGoalRequest struct {
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	GoalType         string       `json:"goalType"`
	Target           TargetMetric `json:"targetMetrics"`
	Period           struct {
		StartDate  *time.Time `json:"startDate"`
		EndDate    *time.Time `json:"endDate"`
		PeriodType string     `json:"periodType"`
	} `json:"goalPeriod"`
	SuccessThreshold *float64 `json:"successThreshold,omitempty"`
}

// GoalProgressRequest records a new current value for a goal. NewValue is a
// pointer so a missing field is distinguishable from an explicit zero.
type GoalProgressRequest struct {
	NewValue *float64 `json:"newValue"`
	Notes    string   `json:"notes,omitempty"`
}
