package types

import (
	"encoding/json"
	"time"
)

// TimeRange names the dashboard window requested by the client.
type TimeRange string

const (
	RangeToday TimeRange = "Today"
	RangeWeek  TimeRange = "This Week"
	RangeMonth TimeRange = "This Month"
)

// TimeRanges lists every valid range value for boundary validation.
var TimeRanges = []string{
	string(RangeToday),
	string(RangeWeek),
	string(RangeMonth),
}

// DashboardStats are the headline figures for the requested window.
type DashboardStats struct {
	TotalHours        string `json:"totalHours"`
	TotalMinutes      int    `json:"totalMinutes"`
	ProductivityScore int    `json:"productivityScore"`
	GoalAchievement   int    `json:"goalAchievement"`
	EfficiencyRate    int    `json:"efficiencyRate"`
}

// TimeAllocation is one category's share of tracked time in the window.
type TimeAllocation struct {
	Name    string `json:"name"`
	Value   int    `json:"value"` // percentage of total
	Minutes int    `json:"minutes"`
	Color   string `json:"color"`
}

// TrendPoint is one day's focus-derived productivity score (0-100).
type TrendPoint struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Score int    `json:"score"`
}

// CategoryComparison contrasts a category's hours against the previous period.
type CategoryComparison struct {
	Category      string  `json:"category"`
	CurrentHours  float64 `json:"currentHours"`
	PreviousHours float64 `json:"previousHours"`
}

// CategoryBreakdown details session statistics for one category.
type CategoryBreakdown struct {
	Category        string  `json:"category"`
	Sessions        int     `json:"sessions"`
	TotalHours      float64 `json:"totalHours"`
	AvgSessionHours float64 `json:"avgSessionHours"`
	Percentage      int     `json:"percentage"`
}

// Dashboard is the read-only windowed projection over entries, tasks and
// goals. It is derived on demand and never persisted.
type Dashboard struct {
	TimeRange          TimeRange            `json:"timeRange"`
	StartDate          time.Time            `json:"startDate"`
	EndDate            time.Time            `json:"endDate"`
	Stats              DashboardStats       `json:"stats"`
	TimeAllocation     []TimeAllocation     `json:"timeAllocation"`
	ProductivityTrend  []TrendPoint         `json:"productivityTrend"`
	CategoryComparison []CategoryComparison `json:"categoryComparison"`
	DetailedBreakdown  []CategoryBreakdown  `json:"detailedBreakdown"`
}

// MarshalJSON ensures nil slices in Dashboard marshal as [] not null.
func (d Dashboard) MarshalJSON() ([]byte, error) {
	if d.TimeAllocation == nil {
		d.TimeAllocation = []TimeAllocation{}
	}
	if d.ProductivityTrend == nil {
		d.ProductivityTrend = []TrendPoint{}
	}
	if d.CategoryComparison == nil {
		d.CategoryComparison = []CategoryComparison{}
	}
	if d.DetailedBreakdown == nil {
		d.DetailedBreakdown = []CategoryBreakdown{}
	}
	type Alias Dashboard
	return json.Marshal(Alias(d))
}
