package model

import (
	"time"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectArchived  ProjectStatus = "archived"
)

// Valid reports whether s is a known project status
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectArchived:
		return true
	}
	return false
}

// Project represents a task list/project
type Project struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Color       string        `json:"color,omitempty"`
	Status      ProjectStatus `json:"status"`
	Favorite    bool          `json:"favorite"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Computed fields (not stored)
	TaskCount      int `json:"task_count,omitempty"`
	CompletedCount int `json:"completed_count,omitempty"`
}

// IsArchived returns true if the project has been archived
func (p *Project) IsArchived() bool {
	return p.Status == ProjectArchived
}
