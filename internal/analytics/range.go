// Package analytics derives the dashboard projection: pure reductions over an
// owner's entries, tasks and goals restricted to a requested time window.
package analytics

import (
	"time"

	"github.com/focalhq/focal/internal/types"
)

// Window is a half-open interval [Start, End) plus the non-overlapping
// previous period of equal calendar length immediately preceding it.
type Window struct {
	Start     time.Time
	End       time.Time
	PrevStart time.Time
	PrevEnd   time.Time
}

// ComputeWindow resolves a named time range against the given clock.
// Weeks start on Monday; months are calendar months, so the previous month
// window may differ in day count from the current one.
func ComputeWindow(r types.TimeRange, now time.Time) Window {
	switch r {
	case types.RangeToday:
		start := startOfDay(now)
		return Window{
			Start:     start,
			End:       start.AddDate(0, 0, 1),
			PrevStart: start.AddDate(0, 0, -1),
			PrevEnd:   start,
		}
	case types.RangeMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Window{
			Start:     start,
			End:       start.AddDate(0, 1, 0),
			PrevStart: start.AddDate(0, -1, 0),
			PrevEnd:   start,
		}
	default: // This Week
		start := startOfWeek(now)
		return Window{
			Start:     start,
			End:       start.AddDate(0, 0, 7),
			PrevStart: start.AddDate(0, 0, -7),
			PrevEnd:   start,
		}
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	// time.Weekday counts Sunday as 0; shift so Monday opens the week.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
