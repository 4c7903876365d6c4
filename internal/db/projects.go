package db

import (
	"database/sql"

	"github.com/voxdroid/tasktrack/internal/model"
)

const defaultProjectColor = "#6C63FF"

// ListProjects returns all projects with task counts, favorites first
func (d *DB) ListProjects() []model.Project {
	return Query(d, `
		SELECT p.id, p.name, p.description, p.color, p.status, p.favorite,
		       p.created_at, p.updated_at,
		       (SELECT COUNT(*) FROM tasks WHERE project_id = p.id AND status != 'archived') AS task_count,
		       (SELECT COUNT(*) FROM tasks WHERE project_id = p.id AND status = 'completed') AS completed_count
		FROM projects p
		ORDER BY p.favorite DESC, p.created_at
	`, scanProjectWithCounts)
}

// GetProject returns a single project by ID
func (d *DB) GetProject(id int64) (model.Project, bool) {
	return QuerySingle(d, `
		SELECT id, name, description, color, status, favorite, created_at, updated_at
		FROM projects WHERE id = ?
	`, scanProject, id)
}

// CreateProject creates a new project with status "active"
func (d *DB) CreateProject(name, description, color string) (model.Project, bool) {
	if color == "" {
		color = defaultProjectColor
	}
	now := formatTime(d.now())

	res := d.Update(`
		INSERT INTO projects (name, description, color, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, name, nullString(description), color, now, now)

	if res.RowsAffected == 0 {
		return model.Project{}, false
	}
	return d.GetProject(res.InsertedID)
}

// UpdateProjectFields applies a partial update. Field names are validated
// against ProjectColumns before any SQL is assembled; an unknown field
// returns an error without touching the store.
func (d *DB) UpdateProjectFields(id int64, fields map[string]any) (Result, error) {
	set, args, err := BuildSetClause(ProjectColumns, fields)
	if err != nil {
		return Result{}, err
	}
	args = append(args, formatTime(d.now()), id)
	return d.Update(`UPDATE projects SET `+set+`, updated_at = ? WHERE id = ?`, args...), nil
}

// DeleteProject hard-deletes a project. Tasks referencing it keep existing
// with their project reference cleared (ON DELETE SET NULL).
func (d *DB) DeleteProject(id int64) Result {
	return d.Update(`DELETE FROM projects WHERE id = ?`, id)
}

func scanProject(rows *sql.Rows) (model.Project, error) {
	var p model.Project
	var description, color *string
	var favorite int
	var created, updated string

	err := rows.Scan(&p.ID, &p.Name, &description, &color, &p.Status, &favorite,
		&created, &updated)
	if err != nil {
		return p, err
	}
	fillProject(&p, description, color, favorite, created, updated)
	return p, nil
}

func scanProjectWithCounts(rows *sql.Rows) (model.Project, error) {
	var p model.Project
	var description, color *string
	var favorite int
	var created, updated string

	err := rows.Scan(&p.ID, &p.Name, &description, &color, &p.Status, &favorite,
		&created, &updated, &p.TaskCount, &p.CompletedCount)
	if err != nil {
		return p, err
	}
	fillProject(&p, description, color, favorite, created, updated)
	return p, nil
}

func fillProject(p *model.Project, description, color *string, favorite int, created, updated string) {
	if description != nil {
		p.Description = *description
	}
	if color != nil {
		p.Color = *color
	}
	p.Favorite = favorite == 1
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
