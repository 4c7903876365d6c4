package db

import (
	"database/sql"
	"maps"
	"time"

	"github.com/voxdroid/tasktrack/internal/model"
)

const taskColumns = `
	id, title, description, project_id, status, priority, assignee,
	due_date, completed_at, favorite, created_at, updated_at`

// TaskFilter selects tasks in ListTasks. Nil/empty fields match everything.
type TaskFilter struct {
	ProjectID *int64
	Status    model.Status
	Priority  model.Priority
	Favorite  *bool
}

// NewTask holds the caller-supplied fields for task creation
type NewTask struct {
	Title       string
	Description string
	ProjectID   *int64
	Priority    model.Priority
	Assignee    string
	DueDate     *time.Time
}

// ListTasks returns tasks matching the filter, completed last, then by
// priority and recency
func (d *DB) ListTasks(f TaskFilter) []model.Task {
	query := `SELECT` + taskColumns + ` FROM tasks WHERE 1=1`
	var args []any

	if f.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *f.ProjectID)
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	} else {
		query += ` AND status != 'archived'`
	}
	if f.Priority != "" {
		query += ` AND priority = ?`
		args = append(args, f.Priority)
	}
	if f.Favorite != nil {
		query += ` AND favorite = ?`
		args = append(args, boolInt(*f.Favorite))
	}
	query += `
		ORDER BY
			CASE status WHEN 'completed' THEN 1 ELSE 0 END,
			CASE priority
				WHEN 'urgent' THEN 0
				WHEN 'high' THEN 1
				WHEN 'medium' THEN 2
				WHEN 'low' THEN 3
			END,
			created_at DESC`

	return Query(d, query, scanTask, args...)
}

// GetTask returns a single task by ID
func (d *DB) GetTask(id int64) (model.Task, bool) {
	return QuerySingle(d, `SELECT`+taskColumns+` FROM tasks WHERE id = ?`, scanTask, id)
}

// CreateTask creates a new task. Status defaults to "todo" and priority to
// "medium". A project reference, if present, must point at an existing
// project; the foreign key rejects the insert otherwise.
func (d *DB) CreateTask(nt NewTask) (model.Task, bool) {
	priority := nt.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	var due any
	if nt.DueDate != nil {
		due = formatTime(*nt.DueDate)
	}
	now := formatTime(d.now())

	res := d.Update(`
		INSERT INTO tasks (title, description, project_id, priority, assignee, due_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, nt.Title, nullString(nt.Description), nt.ProjectID, priority,
		nullString(nt.Assignee), due, now, now)

	if res.RowsAffected == 0 {
		return model.Task{}, false
	}
	return d.GetTask(res.InsertedID)
}

// UpdateTaskFields applies a partial update validated against TaskColumns.
// The store does not link status and completed_at atomically, so the
// transition is handled here: moving to "completed" stamps completed_at
// unless the caller supplied one, any other status clears it.
func (d *DB) UpdateTaskFields(id int64, fields map[string]any) (Result, error) {
	if status, ok := fields["status"]; ok {
		fields = maps.Clone(fields)
		if s, isStr := status.(string); isStr && s == string(model.StatusCompleted) {
			if _, has := fields["completed_at"]; !has {
				fields["completed_at"] = formatTime(d.now())
			}
		} else {
			fields["completed_at"] = nil
		}
	}

	set, args, err := BuildSetClause(TaskColumns, fields)
	if err != nil {
		return Result{}, err
	}
	args = append(args, formatTime(d.now()), id)
	return d.Update(`UPDATE tasks SET `+set+`, updated_at = ? WHERE id = ?`, args...), nil
}

// DeleteTask hard-deletes a task. Its time entries and tag associations are
// cascade-deleted by the store.
func (d *DB) DeleteTask(id int64) Result {
	return d.Update(`DELETE FROM tasks WHERE id = ?`, id)
}

func scanTask(rows *sql.Rows) (model.Task, error) {
	var t model.Task
	var description, assignee, dueDate, completedAt *string
	var favorite int
	var created, updated string

	err := rows.Scan(
		&t.ID, &t.Title, &description, &t.ProjectID, &t.Status, &t.Priority,
		&assignee, &dueDate, &completedAt, &favorite, &created, &updated,
	)
	if err != nil {
		return t, err
	}

	if description != nil {
		t.Description = *description
	}
	if assignee != nil {
		t.Assignee = *assignee
	}
	t.DueDate = parseTimePtr(dueDate)
	t.CompletedAt = parseTimePtr(completedAt)
	t.Favorite = favorite == 1
	t.CreatedAt = parseTime(created)
	t.UpdatedAt = parseTime(updated)
	return t, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
