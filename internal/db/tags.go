package db

import (
	"database/sql"

	"github.com/voxdroid/tasktrack/internal/model"
)

const defaultTagColor = "#888888"

// ListTags returns all tags ordered by name
func (d *DB) ListTags() []model.Tag {
	return Query(d, `
		SELECT id, name, color, created_at FROM tags ORDER BY name
	`, scanTag)
}

// GetTag returns a single tag by ID
func (d *DB) GetTag(id int64) (model.Tag, bool) {
	return QuerySingle(d, `
		SELECT id, name, color, created_at FROM tags WHERE id = ?
	`, scanTag, id)
}

// CreateTag creates a new tag. Names are unique; a duplicate is rejected
// by the store and reported as not ok.
func (d *DB) CreateTag(name, color string) (model.Tag, bool) {
	if color == "" {
		color = defaultTagColor
	}
	res := d.Update(`
		INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?)
	`, name, color, formatTime(d.now()))

	if res.RowsAffected == 0 {
		return model.Tag{}, false
	}
	return d.GetTag(res.InsertedID)
}

// UpdateTagFields applies a partial update validated against TagColumns
func (d *DB) UpdateTagFields(id int64, fields map[string]any) (Result, error) {
	set, args, err := BuildSetClause(TagColumns, fields)
	if err != nil {
		return Result{}, err
	}
	args = append(args, id)
	return d.Update(`UPDATE tags SET `+set+` WHERE id = ?`, args...), nil
}

// DeleteTag hard-deletes a tag and its task associations
func (d *DB) DeleteTag(id int64) Result {
	return d.Update(`DELETE FROM tags WHERE id = ?`, id)
}

// GetTaskTags returns the tags attached to a task
func (d *DB) GetTaskTags(taskID int64) []model.Tag {
	return Query(d, `
		SELECT t.id, t.name, t.color, t.created_at
		FROM tags t
		JOIN task_tags tt ON t.id = tt.tag_id
		WHERE tt.task_id = ?
		ORDER BY t.name
	`, scanTag, taskID)
}

// TagTask attaches a tag to a task. Already-attached pairs are a no-op.
func (d *DB) TagTask(taskID, tagID int64) Result {
	return d.Update(`
		INSERT OR IGNORE INTO task_tags (task_id, tag_id) VALUES (?, ?)
	`, taskID, tagID)
}

// UntagTask removes a tag from a task
func (d *DB) UntagTask(taskID, tagID int64) Result {
	return d.Update(`
		DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?
	`, taskID, tagID)
}

func scanTag(rows *sql.Rows) (model.Tag, error) {
	var t model.Tag
	var color *string
	var created string

	err := rows.Scan(&t.ID, &t.Name, &color, &created)
	if err != nil {
		return t, err
	}
	if color != nil {
		t.Color = *color
	}
	t.CreatedAt = parseTime(created)
	return t, nil
}
