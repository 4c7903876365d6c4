package db

import (
	"database/sql"
	"time"

	"github.com/voxdroid/tasktrack/internal/model"
)

const entryColumns = `
	id, task_id, start_time, end_time, duration, description, created_at`

// EntryFilter selects time entries in ListEntries
type EntryFilter struct {
	TaskID *int64
	From   *time.Time
	To     *time.Time
	Limit  int
}

// StartEntry inserts a running time entry for a task. At most one running
// entry may exist per task; a second start is rejected by the partial
// unique index and reported as not ok.
func (d *DB) StartEntry(taskID int64, description string) (model.TimeEntry, bool) {
	now := formatTime(d.now())
	res := d.Update(`
		INSERT INTO time_entries (task_id, start_time, description, created_at)
		VALUES (?, ?, ?, ?)
	`, taskID, now, nullString(description), now)

	if res.RowsAffected == 0 {
		return model.TimeEntry{}, false
	}
	return d.GetEntry(res.InsertedID)
}

// StopEntry ends a running entry, computing its duration in seconds.
// Stopping an entry that does not exist or already ended is not ok.
func (d *DB) StopEntry(id int64) (model.TimeEntry, bool) {
	entry, ok := d.GetEntry(id)
	if !ok || !entry.IsRunning() {
		return model.TimeEntry{}, false
	}

	end := d.now()
	duration := int64(end.Sub(entry.StartedAt).Seconds())

	res := d.Update(`
		UPDATE time_entries SET end_time = ?, duration = ?
		WHERE id = ? AND end_time IS NULL
	`, formatTime(end), duration, id)

	if res.RowsAffected == 0 {
		return model.TimeEntry{}, false
	}
	return d.GetEntry(id)
}

// GetEntry returns a single time entry by ID
func (d *DB) GetEntry(id int64) (model.TimeEntry, bool) {
	return QuerySingle(d, `SELECT`+entryColumns+` FROM time_entries WHERE id = ?`, scanEntry, id)
}

// RunningEntry returns the active entry, scoped to a task when taskID is
// set, or false when no timer is running
func (d *DB) RunningEntry(taskID *int64) (model.TimeEntry, bool) {
	query := `SELECT` + entryColumns + ` FROM time_entries WHERE end_time IS NULL`
	var args []any
	if taskID != nil {
		query += ` AND task_id = ?`
		args = append(args, *taskID)
	}
	query += ` ORDER BY id DESC LIMIT 1`
	return QuerySingle(d, query, scanEntry, args...)
}

// ListEntries returns time entries matching the filter, newest first
func (d *DB) ListEntries(f EntryFilter) []model.TimeEntry {
	query := `SELECT` + entryColumns + ` FROM time_entries WHERE 1=1`
	var args []any

	if f.TaskID != nil {
		query += ` AND task_id = ?`
		args = append(args, *f.TaskID)
	}
	if f.From != nil {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += ` AND start_time < ?`
		args = append(args, formatTime(*f.To))
	}
	query += ` ORDER BY start_time DESC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	return Query(d, query, scanEntry, args...)
}

// UpdateEntryFields applies a partial update validated against TimeEntryColumns
func (d *DB) UpdateEntryFields(id int64, fields map[string]any) (Result, error) {
	set, args, err := BuildSetClause(TimeEntryColumns, fields)
	if err != nil {
		return Result{}, err
	}
	args = append(args, id)
	return d.Update(`UPDATE time_entries SET `+set+` WHERE id = ?`, args...), nil
}

// DeleteEntry hard-deletes a time entry
func (d *DB) DeleteEntry(id int64) Result {
	return d.Update(`DELETE FROM time_entries WHERE id = ?`, id)
}

func scanEntry(rows *sql.Rows) (model.TimeEntry, error) {
	var e model.TimeEntry
	var start, created string
	var end, description *string
	var duration sql.NullInt64

	err := rows.Scan(&e.ID, &e.TaskID, &start, &end, &duration, &description, &created)
	if err != nil {
		return e, err
	}

	e.StartedAt = parseTime(start)
	e.EndedAt = parseTimePtr(end)
	if duration.Valid {
		e.Duration = &duration.Int64
	}
	if description != nil {
		e.Description = *description
	}
	e.CreatedAt = parseTime(created)
	return e, nil
}
