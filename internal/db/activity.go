package db

import (
	"database/sql"

	"github.com/voxdroid/tasktrack/internal/model"
)

// RecordActivity appends one audit row after a successful mutation.
// Best-effort: a failed insert is logged and swallowed so auditing never
// blocks or fails the primary operation.
func (d *DB) RecordActivity(action, entityType string, entityID int64, details string) {
	res := d.Update(`
		INSERT INTO activity_log (action, entity_type, entity_id, details, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, action, entityType, entityID, details, formatTime(d.now()))

	if res.RowsAffected == 0 {
		d.log.Warn("activity record dropped",
			"action", action, "entity_type", entityType, "entity_id", entityID)
	}
}

// ActivityFilter selects activity rows. Zero values match everything.
type ActivityFilter struct {
	EntityType string
	EntityID   *int64
	Limit      int
}

// ListActivity returns audit rows, newest first
func (d *DB) ListActivity(f ActivityFilter) []model.ActivityEntry {
	query := `
		SELECT id, action, entity_type, entity_id, details, created_at
		FROM activity_log WHERE 1=1`
	var args []any

	if f.EntityType != "" {
		query += ` AND entity_type = ?`
		args = append(args, f.EntityType)
	}
	if f.EntityID != nil {
		query += ` AND entity_id = ?`
		args = append(args, *f.EntityID)
	}
	query += ` ORDER BY id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	return Query(d, query, scanActivity, args...)
}

func scanActivity(rows *sql.Rows) (model.ActivityEntry, error) {
	var e model.ActivityEntry
	var details *string
	var created string

	err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &details, &created)
	if err != nil {
		return e, err
	}
	if details != nil {
		e.Details = *details
	}
	e.CreatedAt = parseTime(created)
	return e, nil
}
