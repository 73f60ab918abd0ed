package types

import (
	"encoding/json"
	"math"
	"time"
)

// EntryStatus represents the lifecycle state of a tracked work session.
type EntryStatus string

const (
	EntryActive    EntryStatus = "active"
	EntryCompleted EntryStatus = "completed"
	EntryPaused    EntryStatus = "paused"
	EntryAbandoned EntryStatus = "abandoned"
)

// EntryStatuses lists every valid entry status for boundary validation.
var EntryStatuses = []string{
	string(EntryActive),
	string(EntryCompleted),
	string(EntryPaused),
	string(EntryAbandoned),
}

// Terminal reports whether the status permits no further transitions.
func (s EntryStatus) Terminal() bool {
	return s == EntryCompleted || s == EntryAbandoned
}

// Interruption is a logged pause within an active entry.
type Interruption struct {
	ID           string     `json:"id"`
	Reason       string     `json:"reason"`
	StartedAt    time.Time  `json:"startTimestamp"`
	EndedAt      *time.Time `json:"endTimestamp,omitempty"`
	DurationMin  int        `json:"durationInMinutes"`
	WasNecessary bool       `json:"wasNecessary"`
}

// TimeEntry is one continuous (or paused) tracked work session.
type TimeEntry struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"ownerId"`
	TaskID        string         `json:"taskId"`
	Title         string         `json:"title,omitempty"`
	StartedAt     time.Time      `json:"startTimestamp"`
	EndedAt       *time.Time     `json:"endTimestamp,omitempty"`
	DurationMin   int            `json:"durationInMinutes"`
	Status        EntryStatus    `json:"status"`
	FocusScore    *int           `json:"focusScore,omitempty"`
	Interruptions []Interruption `json:"interruptionLogs"`
	Notes         string         `json:"additionalNotes,omitempty"`
	Tags          []string       `json:"productivityTags"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// DurationMinutes returns the whole-minute duration between start and end,
// clamped to zero when end precedes start.
func DurationMinutes(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(math.Round(d.Minutes()))
}

// InterruptedMinutes sums the durations of all logged interruptions.
func (e *TimeEntry) InterruptedMinutes() int {
	total := 0
	for _, in := range e.Interruptions {
		total += in.DurationMin
	}
	return total
}

// NetProductiveTime is the entry duration minus interrupted minutes, floored at zero.
func (e *TimeEntry) NetProductiveTime() int {
	net := e.DurationMin - e.InterruptedMinutes()
	if net < 0 {
		return 0
	}
	return net
}

// MarshalJSON ensures nil slices in TimeEntry marshal as [] not null.
func (e TimeEntry) MarshalJSON() ([]byte, error) {
	if e.Interruptions == nil {
		e.Interruptions = []Interruption{}
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
	type Alias TimeEntry
	return json.Marshal(Alias(e))
}

// EntryWithNet decorates an entry with its computed net productive time for
// list responses that request interruption detail.
type EntryWithNet struct {
	TimeEntry
	NetProductiveTime int `json:"netProductiveTime"`
}

// StopSummary reports the outcome of stopping an entry.
type StopSummary struct {
	TotalTime      int `json:"totalTime"`
	ProductiveTime int `json:"productiveTime"`
	Efficiency     int `json:"efficiency"`
}

// Summarize derives the stop summary for a completed entry. Efficiency is the
// productive share of the total duration as a whole percentage.
func (e *TimeEntry) Summarize() StopSummary {
	net := e.NetProductiveTime()
	eff := 0
	if e.DurationMin > 0 {
		eff = int(math.Round(float64(net) / float64(e.DurationMin) * 100))
	}
	return StopSummary{
		TotalTime:      e.DurationMin,
		ProductiveTime: net,
		Efficiency:     eff,
	}
}
