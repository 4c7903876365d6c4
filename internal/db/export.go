package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/voxdroid/tasktrack/internal/model"
)

// ExportDocument is a full snapshot of every table, used by the export and
// import endpoints and the CLI.
type ExportDocument struct {
	ExportedAt  string                `json:"exported_at"`
	Projects    []model.Project       `json:"projects"`
	Tasks       []model.Task          `json:"tasks"`
	TimeEntries []model.TimeEntry     `json:"time_entries"`
	Tags        []model.Tag           `json:"tags"`
	TaskTags    []model.TaskTag       `json:"task_tags"`
	Activity    []model.ActivityEntry `json:"activity_log"`
}

// Export reads every table unconditionally into a snapshot document
func (d *DB) Export() ExportDocument {
	return ExportDocument{
		ExportedAt: formatTime(d.now()),
		Projects: Query(d, `
			SELECT id, name, description, color, status, favorite, created_at, updated_at
			FROM projects ORDER BY id`, scanProject),
		Tasks: Query(d, `SELECT`+taskColumns+` FROM tasks ORDER BY id`, scanTask),
		TimeEntries: Query(d, `SELECT`+entryColumns+` FROM time_entries ORDER BY id`,
			scanEntry),
		Tags: Query(d, `SELECT id, name, color, created_at FROM tags ORDER BY id`,
			scanTag),
		TaskTags: Query(d, `SELECT task_id, tag_id FROM task_tags ORDER BY task_id, tag_id`,
			scanTaskTag),
		Activity: Query(d, `
			SELECT id, action, entity_type, entity_id, details, created_at
			FROM activity_log ORDER BY id`, scanActivity),
	}
}

// Import replaces the entire store contents with the document, inside one
// transaction: all rows are deleted children before parents, then
// re-inserted parents before children. Any failure rolls the whole import
// back and leaves the previous contents untouched.
func (d *DB) Import(doc ExportDocument) error {
	err := d.Transaction(func(tx *sql.Tx) error {
		deletes := []string{
			`DELETE FROM task_tags`,
			`DELETE FROM time_entries`,
			`DELETE FROM activity_log`,
			`DELETE FROM tasks`,
			`DELETE FROM tags`,
			`DELETE FROM projects`,
		}
		for _, stmt := range deletes {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("clearing tables: %w", err)
			}
		}

		for _, p := range doc.Projects {
			status := p.Status
			if status == "" {
				status = model.ProjectActive
			}
			_, err := tx.Exec(`
				INSERT INTO projects (id, name, description, color, status, favorite, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`, p.ID, p.Name, nullString(p.Description), p.Color, status,
				boolInt(p.Favorite), formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
			if err != nil {
				return fmt.Errorf("importing project %d: %w", p.ID, err)
			}
		}

		for _, t := range doc.Tasks {
			status := t.Status
			if status == "" {
				status = model.StatusTodo
			}
			priority := t.Priority
			if priority == "" {
				priority = model.PriorityMedium
			}
			_, err := tx.Exec(`
				INSERT INTO tasks (id, title, description, project_id, status, priority, assignee, due_date, completed_at, favorite, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, t.ID, t.Title, nullString(t.Description), t.ProjectID, status, priority,
				nullString(t.Assignee), formatTimePtr(t.DueDate), formatTimePtr(t.CompletedAt),
				boolInt(t.Favorite), formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
			if err != nil {
				return fmt.Errorf("importing task %d: %w", t.ID, err)
			}
		}

		for _, e := range doc.TimeEntries {
			var duration any
			if e.Duration != nil {
				duration = *e.Duration
			}
			_, err := tx.Exec(`
				INSERT INTO time_entries (id, task_id, start_time, end_time, duration, description, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, e.ID, e.TaskID, formatTime(e.StartedAt), formatTimePtr(e.EndedAt),
				duration, nullString(e.Description), formatTime(e.CreatedAt))
			if err != nil {
				return fmt.Errorf("importing time entry %d: %w", e.ID, err)
			}
		}

		for _, t := range doc.Tags {
			_, err := tx.Exec(`
				INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)
			`, t.ID, t.Name, t.Color, formatTime(t.CreatedAt))
			if err != nil {
				return fmt.Errorf("importing tag %d: %w", t.ID, err)
			}
		}

		for _, tt := range doc.TaskTags {
			_, err := tx.Exec(`
				INSERT INTO task_tags (task_id, tag_id) VALUES (?, ?)
			`, tt.TaskID, tt.TagID)
			if err != nil {
				return fmt.Errorf("importing task tag %d/%d: %w", tt.TaskID, tt.TagID, err)
			}
		}

		for _, a := range doc.Activity {
			_, err := tx.Exec(`
				INSERT INTO activity_log (id, action, entity_type, entity_id, details, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, a.ID, a.Action, a.EntityType, a.EntityID, nullString(a.Details),
				formatTime(a.CreatedAt))
			if err != nil {
				return fmt.Errorf("importing activity entry %d: %w", a.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	d.RecordActivity("imported", "database", 0,
		fmt.Sprintf("restored %d projects, %d tasks, %d time entries",
			len(doc.Projects), len(doc.Tasks), len(doc.TimeEntries)))
	return nil
}

func scanTaskTag(rows *sql.Rows) (model.TaskTag, error) {
	var tt model.TaskTag
	err := rows.Scan(&tt.TaskID, &tt.TagID)
	return tt, err
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
