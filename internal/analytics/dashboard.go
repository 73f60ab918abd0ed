package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/focalhq/focal/internal/types"
)

// fallbackCategory buckets entries whose task no longer exists, so the
// allocation minutes still sum to the window total.
const fallbackCategory = types.Category("other")

// Input carries everything the pipeline reduces over. Entries and
// PrevEntries are restricted to the current and previous windows; Tasks and
// Goals are the owner's full collections.
type Input struct {
	Entries     []types.TimeEntry
	PrevEntries []types.TimeEntry
	Tasks       []types.UserTask
	Goals       []types.ProductivityGoal
}

// BuildDashboard computes the windowed dashboard projection. It is a pure
// function: no persistence side effects, all derived values computed at call
// time.
func BuildDashboard(r types.TimeRange, w Window, in Input) types.Dashboard {
	taskCategory := categoryIndex(in.Tasks)

	totalMinutes := sumMinutes(in.Entries)

	return types.Dashboard{
		TimeRange: r,
		StartDate: w.Start,
		EndDate:   w.End,
		Stats: types.DashboardStats{
			TotalHours:        fmt.Sprintf("%.1f", float64(totalMinutes)/60),
			TotalMinutes:      totalMinutes,
			ProductivityScore: productivityScore(in.Entries),
			GoalAchievement:   goalAchievement(in.Goals),
			EfficiencyRate:    efficiencyRate(in.Tasks, w),
		},
		TimeAllocation:     timeAllocation(in.Entries, taskCategory, totalMinutes),
		ProductivityTrend:  productivityTrend(in.Entries, w),
		CategoryComparison: categoryComparison(in.Entries, in.PrevEntries, taskCategory),
		DetailedBreakdown:  detailedBreakdown(in.Entries, taskCategory, totalMinutes),
	}
}

// categoryIndex maps task ids to their category for entry grouping.
func categoryIndex(tasks []types.UserTask) map[string]types.Category {
	idx := make(map[string]types.Category, len(tasks))
	for i := range tasks {
		idx[tasks[i].ID] = tasks[i].Category
	}
	return idx
}

func entryCategory(e *types.TimeEntry, idx map[string]types.Category) types.Category {
	if c, ok := idx[e.TaskID]; ok {
		return c
	}
	return fallbackCategory
}

func sumMinutes(entries []types.TimeEntry) int {
	total := 0
	for i := range entries {
		total += entries[i].DurationMin
	}
	return total
}

// productivityScore maps the mean focus score over scored entries onto 0-100.
func productivityScore(entries []types.TimeEntry) int {
	sum, count := 0, 0
	for i := range entries {
		if entries[i].FocusScore != nil {
			sum += *entries[i].FocusScore
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count) / 5 * 100))
}

// goalAchievement is the mean completion percentage across tracked goals.
func goalAchievement(goals []types.ProductivityGoal) int {
	sum, count := 0.0, 0
	for i := range goals {
		if goals[i].Status.Tracked() {
			sum += goals[i].Progress.CompletionPercentage
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(sum / float64(count)))
}

// efficiencyRate is the mean completion efficiency over tasks active in the
// window with a meaningful efficiency figure.
func efficiencyRate(tasks []types.UserTask, w Window) int {
	sum, count := 0.0, 0
	for i := range tasks {
		t := &tasks[i]
		if t.LastActivityAt == nil || t.Metrics.CompletionEfficiency <= 0 {
			continue
		}
		at := *t.LastActivityAt
		if at.Before(w.Start) || !at.Before(w.End) {
			continue
		}
		sum += t.Metrics.CompletionEfficiency
		count++
	}
	if count == 0 {
		return 0
	}
	return int(math.Round(sum / float64(count)))
}

// timeAllocation groups tracked minutes by category, drops zero-minute
// buckets and attaches each category's fixed color. Buckets whose share
// rounds to 0% are kept so the minutes still sum to the window total.
func timeAllocation(entries []types.TimeEntry, idx map[string]types.Category, totalMinutes int) []types.TimeAllocation {
	minutes := map[types.Category]int{}
	for i := range entries {
		minutes[entryCategory(&entries[i], idx)] += entries[i].DurationMin
	}

	out := make([]types.TimeAllocation, 0, len(minutes))
	for cat, mins := range minutes {
		if mins == 0 {
			continue
		}
		pct := 0
		if totalMinutes > 0 {
			pct = int(math.Round(float64(mins) / float64(totalMinutes) * 100))
		}
		out = append(out, types.TimeAllocation{
			Name:    cat.DisplayName(),
			Value:   pct,
			Minutes: mins,
			Color:   cat.Color(),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Minutes > out[j].Minutes })
	return out
}

// productivityTrend computes the per-day mean focus score across the window,
// mapped onto 0-100. Days without scored entries read as zero.
func productivityTrend(entries []types.TimeEntry, w Window) []types.TrendPoint {
	type daily struct {
		sum, count int
	}
	byDay := map[string]*daily{}
	for i := range entries {
		e := &entries[i]
		if e.FocusScore == nil {
			continue
		}
		key := e.StartedAt.Format("2006-01-02")
		d := byDay[key]
		if d == nil {
			d = &daily{}
			byDay[key] = d
		}
		d.sum += *e.FocusScore
		d.count++
	}

	var trend []types.TrendPoint
	for day := w.Start; day.Before(w.End); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		score := 0
		if d := byDay[key]; d != nil && d.count > 0 {
			score = int(math.Round(float64(d.sum) / float64(d.count) / 5 * 100))
		}
		trend = append(trend, types.TrendPoint{Date: key, Score: score})
	}
	return trend
}

// categoryComparison contrasts the top 6 current-period categories against
// the previous period, in hours rounded to one decimal.
func categoryComparison(entries, prev []types.TimeEntry, idx map[string]types.Category) []types.CategoryComparison {
	current := map[types.Category]int{}
	for i := range entries {
		current[entryCategory(&entries[i], idx)] += entries[i].DurationMin
	}
	previous := map[types.Category]int{}
	for i := range prev {
		previous[entryCategory(&prev[i], idx)] += prev[i].DurationMin
	}

	cats := make([]types.Category, 0, len(current))
	for c := range current {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if current[cats[i]] != current[cats[j]] {
			return current[cats[i]] > current[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > 6 {
		cats = cats[:6]
	}

	out := make([]types.CategoryComparison, 0, len(cats))
	for _, c := range cats {
		out = append(out, types.CategoryComparison{
			Category:      c.DisplayName(),
			CurrentHours:  roundHours(current[c], 1),
			PreviousHours: roundHours(previous[c], 1),
		})
	}
	return out
}

// detailedBreakdown reports per-category session counts, hours, mean session
// length and share of the window total.
func detailedBreakdown(entries []types.TimeEntry, idx map[string]types.Category, totalMinutes int) []types.CategoryBreakdown {
	type agg struct {
		sessions int
		minutes  int
	}
	byCat := map[types.Category]*agg{}
	for i := range entries {
		c := entryCategory(&entries[i], idx)
		a := byCat[c]
		if a == nil {
			a = &agg{}
			byCat[c] = a
		}
		a.sessions++
		a.minutes += entries[i].DurationMin
	}

	out := make([]types.CategoryBreakdown, 0, len(byCat))
	for c, a := range byCat {
		pct := 0
		if totalMinutes > 0 {
			pct = int(math.Round(float64(a.minutes) / float64(totalMinutes) * 100))
		}
		avg := 0.0
		if a.sessions > 0 {
			avg = roundHoursF(float64(a.minutes)/float64(a.sessions), 2)
		}
		out = append(out, types.CategoryBreakdown{
			Category:        c.DisplayName(),
			Sessions:        a.sessions,
			TotalHours:      roundHours(a.minutes, 2),
			AvgSessionHours: avg,
			Percentage:      pct,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalHours != out[j].TotalHours {
			return out[i].TotalHours > out[j].TotalHours
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func roundHours(minutes int, decimals int) float64 {
	return roundHoursF(float64(minutes), decimals)
}

func roundHoursF(minutes float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(minutes/60*scale) / scale
}
