package types

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func TestApplyProgress_AccumulatesTime(t *testing.T) {
	task := UserTask{Status: TaskNotStarted}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 30}, testNow)
	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 45}, testNow)

	if task.Metrics.TotalTimeSpentMin != 75 {
		t.Errorf("TotalTimeSpentMin = %d, want 75", task.Metrics.TotalTimeSpentMin)
	}
	if task.Metrics.EffectiveProductiveTime != 75 {
		t.Errorf("EffectiveProductiveTime = %d, want 75 (defaults to time spent)", task.Metrics.EffectiveProductiveTime)
	}
}

func TestApplyProgress_FocusMeanIgnoresScorelessUpdates(t *testing.T) {
	task := UserTask{}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 10, FocusScore: intPtr(4)}, testNow)
	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 10}, testNow) // no score
	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 10, FocusScore: intPtr(2)}, testNow)

	if task.Metrics.FocusSampleCount != 2 {
		t.Errorf("FocusSampleCount = %d, want 2", task.Metrics.FocusSampleCount)
	}
	if task.Metrics.AverageFocusScore != 3.0 {
		t.Errorf("AverageFocusScore = %v, want 3.0", task.Metrics.AverageFocusScore)
	}
}

func TestApplyProgress_StartsNotStartedTask(t *testing.T) {
	task := UserTask{Status: TaskNotStarted}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 5}, testNow)

	if task.Status != TaskInProgress {
		t.Errorf("Status = %s, want %s", task.Status, TaskInProgress)
	}
	if task.ActualStartDate == nil || !task.ActualStartDate.Equal(testNow) {
		t.Error("ActualStartDate not stamped")
	}
}

func TestApplyProgress_ZeroTimeDoesNotStartTask(t *testing.T) {
	task := UserTask{Status: TaskNotStarted}

	task.ApplyProgress(ProgressUpdate{FocusScore: intPtr(3)}, testNow)

	if task.Status != TaskNotStarted {
		t.Errorf("Status = %s, want %s", task.Status, TaskNotStarted)
	}
}

func TestApplyProgress_Completion(t *testing.T) {
	task := UserTask{Status: TaskInProgress, CompletionStreak: 2}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 20, IsCompleted: true}, testNow)

	if task.Status != TaskCompleted {
		t.Errorf("Status = %s, want %s", task.Status, TaskCompleted)
	}
	if task.CompletionPercentage != 100 {
		t.Errorf("CompletionPercentage = %d, want 100", task.CompletionPercentage)
	}
	if task.ActualCompletionDate == nil {
		t.Error("ActualCompletionDate not stamped")
	}
	if task.CompletionStreak != 3 {
		t.Errorf("CompletionStreak = %d, want 3", task.CompletionStreak)
	}
}

func TestApplyProgress_DerivedMetrics(t *testing.T) {
	task := UserTask{EstimatedDurationMin: 60}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 80}, testNow)

	if got := task.Metrics.CompletionEfficiency; got != 75.0 {
		t.Errorf("CompletionEfficiency = %v, want 75.0", got)
	}
	// accuracy = (60 - |80-60|) / 60 * 100
	want := (60.0 - 20.0) / 60.0 * 100
	if got := task.Metrics.EstimatedAccuracy; got != want {
		t.Errorf("EstimatedAccuracy = %v, want %v", got, want)
	}
}

func TestApplyProgress_AccuracyFloorsAtZero(t *testing.T) {
	task := UserTask{EstimatedDurationMin: 10}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 100}, testNow)

	if got := task.Metrics.EstimatedAccuracy; got != 0 {
		t.Errorf("EstimatedAccuracy = %v, want 0", got)
	}
}

func TestApplyProgress_NoEstimateSkipsDerivedMetrics(t *testing.T) {
	task := UserTask{}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 30}, testNow)

	if task.Metrics.CompletionEfficiency != 0 || task.Metrics.EstimatedAccuracy != 0 {
		t.Error("derived metrics must stay zero without an estimate")
	}
}

func TestApplyProgress_ProductiveMinOverride(t *testing.T) {
	task := UserTask{}

	task.ApplyProgress(ProgressUpdate{TimeSpentMin: 60, ProductiveMin: intPtr(45), Interruptions: 2}, testNow)

	if task.Metrics.EffectiveProductiveTime != 45 {
		t.Errorf("EffectiveProductiveTime = %d, want 45", task.Metrics.EffectiveProductiveTime)
	}
	if task.Metrics.InterruptionsCount != 2 {
		t.Errorf("InterruptionsCount = %d, want 2", task.Metrics.InterruptionsCount)
	}
}

func TestProductivityScore_Weighting(t *testing.T) {
	task := UserTask{
		CompletionPercentage: 100,
		Metrics: ProductivityMetrics{
			AverageFocusScore:    5,
			CompletionEfficiency: 200,
			EstimatedAccuracy:    100,
		},
	}

	// 0.4*100 + 0.3*100 + 0.2*100 + 0.1*100
	if got := task.ProductivityScore(); got != 100 {
		t.Errorf("ProductivityScore() = %d, want 100", got)
	}
}

func TestProductivityScore_EfficiencyCapped(t *testing.T) {
	capped := UserTask{Metrics: ProductivityMetrics{CompletionEfficiency: 400}}
	atCap := UserTask{Metrics: ProductivityMetrics{CompletionEfficiency: 200}}

	if capped.ProductivityScore() != atCap.ProductivityScore() {
		t.Error("efficiency above 200 must not raise the score further")
	}
}

func TestUrgencyScore(t *testing.T) {
	deadline := func(d time.Duration) *time.Time {
		t := testNow.Add(d)
		return &t
	}

	tests := []struct {
		name string
		task UserTask
		want int
	}{
		{"low priority no deadline", UserTask{Priority: PriorityLow}, 1},
		{"overdue critical in progress caps at 10", UserTask{
			Priority: PriorityCritical,
			Deadline: deadline(-time.Hour),
			Status:   TaskInProgress,
		}, 10},
		{"due tomorrow", UserTask{
			Priority: PriorityMedium,
			Deadline: deadline(20 * time.Hour),
		}, 5},
		{"due this week not started", UserTask{
			Priority: PriorityHigh,
			Deadline: deadline(6 * 24 * time.Hour),
			Status:   TaskNotStarted,
		}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.UrgencyScore(testNow); got != tt.want {
				t.Errorf("UrgencyScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	past := testNow.Add(-time.Hour)

	overdue := UserTask{Deadline: &past, Status: TaskInProgress}
	if !overdue.IsOverdue(testNow) {
		t.Error("expected overdue")
	}

	done := UserTask{Deadline: &past, Status: TaskCompleted}
	if done.IsOverdue(testNow) {
		t.Error("completed task is never overdue")
	}

	noDeadline := UserTask{Status: TaskInProgress}
	if noDeadline.IsOverdue(testNow) {
		t.Error("task without deadline is never overdue")
	}
}

func TestBuildTaskSummary(t *testing.T) {
	tasks := []UserTask{
		{
			Status:               TaskCompleted,
			Category:             CategoryDeepWork,
			Priority:             PriorityHigh,
			EstimatedDurationMin: 60,
			CompletionPercentage: 100,
			Metrics:              ProductivityMetrics{TotalTimeSpentMin: 50},
		},
		{
			Status:   TaskInProgress,
			Category: CategoryDeepWork,
			Priority: PriorityLow,
			Deadline: func() *time.Time { d := testNow.Add(-time.Hour); return &d }(),
		},
		{
			Status:   TaskNotStarted,
			Category: CategoryMeetings,
			Priority: PriorityHigh,
		},
	}

	s := BuildTaskSummary(tasks, testNow)

	if s.TotalTasks != 3 {
		t.Errorf("TotalTasks = %d, want 3", s.TotalTasks)
	}
	if s.ByStatus[string(TaskCompleted)] != 1 || s.ByStatus[string(TaskInProgress)] != 1 {
		t.Errorf("ByStatus = %v", s.ByStatus)
	}
	if s.ByCategory[string(CategoryDeepWork)] != 2 {
		t.Errorf("ByCategory[deep_work] = %d, want 2", s.ByCategory[string(CategoryDeepWork)])
	}
	if s.ByPriority[string(PriorityHigh)] != 2 {
		t.Errorf("ByPriority[high] = %d, want 2", s.ByPriority[string(PriorityHigh)])
	}
	if s.TotalEstimatedMin != 60 {
		t.Errorf("TotalEstimatedMin = %d, want 60", s.TotalEstimatedMin)
	}
	if s.TotalActualMin != 50 {
		t.Errorf("TotalActualMin = %d, want 50", s.TotalActualMin)
	}
	if s.OverdueTasks != 1 {
		t.Errorf("OverdueTasks = %d, want 1", s.OverdueTasks)
	}
	// Only the completed task contributes to the mean.
	if s.AverageProductivityScore != tasks[0].ProductivityScore() {
		t.Errorf("AverageProductivityScore = %d, want %d", s.AverageProductivityScore, tasks[0].ProductivityScore())
	}
}

func TestBuildTaskSummary_Empty(t *testing.T) {
	s := BuildTaskSummary(nil, testNow)

	if s.TotalTasks != 0 || s.AverageProductivityScore != 0 {
		t.Errorf("empty summary = %+v", s)
	}
}
