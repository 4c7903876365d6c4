package server

import (
	"fmt"
	"net/http"

	"github.com/voxdroid/tasktrack/internal/model"
)

type createProjectIn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects := s.db.ListProjects()
	if projects == nil {
		projects = []model.Project{}
	}
	writeJSON(w, projects, http.StatusOK)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in createProjectIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	p, ok := s.db.CreateProject(in.Name, in.Description, in.Color)
	if !ok {
		writeError(w, "failed to create project", http.StatusInternalServerError)
		return
	}

	s.db.RecordActivity("created", "project", p.ID,
		fmt.Sprintf("created project %q", p.Name))
	writeJSON(w, p, http.StatusCreated)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	p, found := s.db.GetProject(id)
	if !found {
		writeError(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	var fields map[string]any
	if !decodeBody(w, r, &fields) {
		return
	}
	if v, present := fields["status"]; present {
		status, isStr := v.(string)
		if !isStr || !model.ProjectStatus(status).Valid() {
			writeError(w, "invalid status", http.StatusBadRequest)
			return
		}
	}

	res, err := s.db.UpdateProjectFields(id, fields)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, "project not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("updated", "project", id, "updated project")
	p, _ := s.db.GetProject(id)
	writeJSON(w, p, http.StatusOK)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := s.db.DeleteProject(id)
	if res.RowsAffected == 0 {
		writeError(w, "project not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("deleted", "project", id, "deleted project")
	w.WriteHeader(http.StatusNoContent)
}
