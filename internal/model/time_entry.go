package model

import (
	"time"
)

// TimeEntry represents a time tracking entry for a task.
// An entry with no end time is currently running.
type TimeEntry struct {
	ID          int64      `json:"id"`
	TaskID      int64      `json:"task_id"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Duration    *int64     `json:"duration,omitempty"` // seconds, set at stop time
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsRunning returns true if this time entry is still active
func (te *TimeEntry) IsRunning() bool {
	return te.EndedAt == nil
}

// Elapsed returns the entry's duration in seconds.
// If Duration is set, returns that; otherwise calculates from StartedAt.
func (te *TimeEntry) Elapsed() int64 {
	if te.Duration != nil {
		return *te.Duration
	}
	if te.EndedAt == nil {
		return int64(time.Since(te.StartedAt).Seconds())
	}
	return int64(te.EndedAt.Sub(te.StartedAt).Seconds())
}
