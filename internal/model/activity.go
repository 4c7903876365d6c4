package model

import (
	"time"
)

// ActivityEntry is one row of the append-only audit trail. Entries are
// written after each successful mutation and never updated or deleted.
type ActivityEntry struct {
	ID         int64     `json:"id"`
	Action     string    `json:"action"`      // created, updated, deleted, started, stopped, imported, ...
	EntityType string    `json:"entity_type"` // task, project, time_entry, tag, database
	EntityID   int64     `json:"entity_id"`   // 0 when not applicable
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
