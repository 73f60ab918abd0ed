package analytics

import (
	"testing"
	"time"

	"github.com/focalhq/focal/internal/types"
)

func intPtr(v int) *int { return &v }

func weekOf(t *testing.T) (Window, time.Time) {
	t.Helper()
	now := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC) // Wednesday
	return ComputeWindow(types.RangeWeek, now), now
}

func entryOn(day time.Time, taskID string, minutes int, focus *int) types.TimeEntry {
	return types.TimeEntry{
		TaskID:      taskID,
		StartedAt:   day,
		DurationMin: minutes,
		Status:      types.EntryCompleted,
		FocusScore:  focus,
	}
}

func TestBuildDashboard_Stats(t *testing.T) {
	w, _ := weekOf(t)
	tasks := []types.UserTask{
		{ID: "t1", Category: types.CategoryDeepWork},
		{ID: "t2", Category: types.CategoryMeetings},
	}
	entries := []types.TimeEntry{
		entryOn(w.Start, "t1", 90, intPtr(4)),
		entryOn(w.Start.AddDate(0, 0, 1), "t2", 30, intPtr(2)),
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Entries: entries, Tasks: tasks})

	if d.Stats.TotalMinutes != 120 {
		t.Errorf("TotalMinutes = %d, want 120", d.Stats.TotalMinutes)
	}
	if d.Stats.TotalHours != "2.0" {
		t.Errorf("TotalHours = %q, want \"2.0\"", d.Stats.TotalHours)
	}
	// mean focus (4+2)/2 = 3 → 60
	if d.Stats.ProductivityScore != 60 {
		t.Errorf("ProductivityScore = %d, want 60", d.Stats.ProductivityScore)
	}
}

func TestBuildDashboard_EmptyWindow(t *testing.T) {
	w, _ := weekOf(t)

	d := BuildDashboard(types.RangeWeek, w, Input{})

	if d.Stats.TotalMinutes != 0 || d.Stats.ProductivityScore != 0 {
		t.Errorf("stats = %+v, want zeros", d.Stats)
	}
	if len(d.TimeAllocation) != 0 {
		t.Errorf("TimeAllocation = %v, want empty", d.TimeAllocation)
	}
	if len(d.ProductivityTrend) != 7 {
		t.Errorf("trend length = %d, want 7 (every day present)", len(d.ProductivityTrend))
	}
}

func TestTimeAllocation_SumsToWindowTotal(t *testing.T) {
	w, _ := weekOf(t)
	tasks := []types.UserTask{{ID: "t1", Category: types.CategoryDeepWork}}
	entries := []types.TimeEntry{
		entryOn(w.Start, "t1", 60, nil),
		entryOn(w.Start, "gone-task", 40, nil), // owning task deleted
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Entries: entries, Tasks: tasks})

	sum := 0
	for _, a := range d.TimeAllocation {
		sum += a.Minutes
	}
	if sum != d.Stats.TotalMinutes {
		t.Errorf("allocation minutes = %d, want window total %d", sum, d.Stats.TotalMinutes)
	}

	if len(d.TimeAllocation) != 2 {
		t.Fatalf("allocation buckets = %d, want 2", len(d.TimeAllocation))
	}
	// Sorted by minutes descending.
	if d.TimeAllocation[0].Name != "Deep Work" || d.TimeAllocation[0].Minutes != 60 {
		t.Errorf("top bucket = %+v", d.TimeAllocation[0])
	}
	if d.TimeAllocation[0].Value != 60 {
		t.Errorf("top bucket percentage = %d, want 60", d.TimeAllocation[0].Value)
	}
	if d.TimeAllocation[0].Color != types.CategoryDeepWork.Color() {
		t.Errorf("color = %q", d.TimeAllocation[0].Color)
	}
}

func TestTimeAllocation_KeepsTinyBuckets(t *testing.T) {
	w, _ := weekOf(t)
	tasks := []types.UserTask{
		{ID: "t1", Category: types.CategoryDeepWork},
		{ID: "t2", Category: types.CategoryMeetings},
	}
	// 1 of 301 minutes rounds to a 0% share but must still be reported.
	entries := []types.TimeEntry{
		entryOn(w.Start, "t1", 300, nil),
		entryOn(w.Start, "t2", 1, nil),
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Entries: entries, Tasks: tasks})

	if len(d.TimeAllocation) != 2 {
		t.Fatalf("allocation buckets = %d, want 2", len(d.TimeAllocation))
	}
	sum := 0
	for _, a := range d.TimeAllocation {
		sum += a.Minutes
	}
	if sum != d.Stats.TotalMinutes {
		t.Errorf("allocation minutes = %d, want window total %d", sum, d.Stats.TotalMinutes)
	}
	tiny := d.TimeAllocation[1]
	if tiny.Name != "Meetings" || tiny.Minutes != 1 {
		t.Errorf("tiny bucket = %+v", tiny)
	}
	if tiny.Value != 0 {
		t.Errorf("tiny bucket percentage = %d, want 0", tiny.Value)
	}
}

func TestProductivityTrend_CoversEveryDay(t *testing.T) {
	w, _ := weekOf(t)
	entries := []types.TimeEntry{
		entryOn(w.Start, "t1", 60, intPtr(5)),
		entryOn(w.Start, "t1", 60, intPtr(3)),
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Entries: entries})

	if len(d.ProductivityTrend) != 7 {
		t.Fatalf("trend length = %d, want 7", len(d.ProductivityTrend))
	}
	// Monday mean focus 4 maps to 80; all other days unscored read zero.
	if d.ProductivityTrend[0].Score != 80 {
		t.Errorf("monday score = %d, want 80", d.ProductivityTrend[0].Score)
	}
	for _, p := range d.ProductivityTrend[1:] {
		if p.Score != 0 {
			t.Errorf("day %s score = %d, want 0", p.Date, p.Score)
		}
	}
	if d.ProductivityTrend[0].Date != w.Start.Format("2006-01-02") {
		t.Errorf("first trend date = %s", d.ProductivityTrend[0].Date)
	}
}

func TestCategoryComparison_TopSixWithPreviousPeriod(t *testing.T) {
	w, _ := weekOf(t)

	cats := []types.Category{
		types.CategoryDeepWork, types.CategoryMeetings, types.CategoryCommunication,
		types.CategoryPlanning, types.CategoryLearning, types.CategoryHousehold,
		types.CategoryAdministrative,
	}
	tasks := make([]types.UserTask, len(cats))
	entries := make([]types.TimeEntry, len(cats))
	for i, c := range cats {
		id := string(c)
		tasks[i] = types.UserTask{ID: id, Category: c}
		entries[i] = entryOn(w.Start, id, (len(cats)-i)*10, nil)
	}
	prev := []types.TimeEntry{
		entryOn(w.PrevStart, string(types.CategoryDeepWork), 90, nil),
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Entries: entries, PrevEntries: prev, Tasks: tasks})

	if len(d.CategoryComparison) != 6 {
		t.Fatalf("comparison length = %d, want 6", len(d.CategoryComparison))
	}
	top := d.CategoryComparison[0]
	if top.Category != "Deep Work" {
		t.Errorf("top category = %q, want Deep Work", top.Category)
	}
	if top.CurrentHours != 1.2 { // 70 minutes
		t.Errorf("CurrentHours = %v, want 1.2", top.CurrentHours)
	}
	if top.PreviousHours != 1.5 { // 90 minutes
		t.Errorf("PreviousHours = %v, want 1.5", top.PreviousHours)
	}
	// Administrative had the least minutes and must be cut.
	for _, c := range d.CategoryComparison {
		if c.Category == "Administrative" {
			t.Error("seventh category should not appear in a top-6 comparison")
		}
	}
}

func TestDetailedBreakdown(t *testing.T) {
	w, _ := weekOf(t)
	tasks := []types.UserTask{{ID: "t1", Category: types.CategoryDeepWork}}
	entries := []types.TimeEntry{
		entryOn(w.Start, "t1", 60, nil),
		entryOn(w.Start.AddDate(0, 0, 1), "t1", 30, nil),
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Entries: entries, Tasks: tasks})

	if len(d.DetailedBreakdown) != 1 {
		t.Fatalf("breakdown length = %d, want 1", len(d.DetailedBreakdown))
	}
	b := d.DetailedBreakdown[0]
	if b.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", b.Sessions)
	}
	if b.TotalHours != 1.5 {
		t.Errorf("TotalHours = %v, want 1.5", b.TotalHours)
	}
	if b.AvgSessionHours != 0.75 {
		t.Errorf("AvgSessionHours = %v, want 0.75", b.AvgSessionHours)
	}
	if b.Percentage != 100 {
		t.Errorf("Percentage = %d, want 100", b.Percentage)
	}
}

func TestGoalAchievement_IgnoresAbandonedGoals(t *testing.T) {
	w, _ := weekOf(t)
	goals := []types.ProductivityGoal{
		{Status: types.GoalActive, Progress: types.ProgressData{CompletionPercentage: 40}},
		{Status: types.GoalCompleted, Progress: types.ProgressData{CompletionPercentage: 100}},
		{Status: types.GoalAbandoned, Progress: types.ProgressData{CompletionPercentage: 5}},
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Goals: goals})

	if d.Stats.GoalAchievement != 70 {
		t.Errorf("GoalAchievement = %d, want 70", d.Stats.GoalAchievement)
	}
}

func TestEfficiencyRate_OnlyCountsTasksActiveInWindow(t *testing.T) {
	w, _ := weekOf(t)
	inWindow := w.Start.Add(24 * time.Hour)
	outside := w.Start.AddDate(0, 0, -10)

	tasks := []types.UserTask{
		{LastActivityAt: &inWindow, Metrics: types.ProductivityMetrics{CompletionEfficiency: 120}},
		{LastActivityAt: &outside, Metrics: types.ProductivityMetrics{CompletionEfficiency: 60}},
		{LastActivityAt: &inWindow}, // no efficiency yet
	}

	d := BuildDashboard(types.RangeWeek, w, Input{Tasks: tasks})

	if d.Stats.EfficiencyRate != 120 {
		t.Errorf("EfficiencyRate = %d, want 120", d.Stats.EfficiencyRate)
	}
}
