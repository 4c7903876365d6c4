package server

import (
	"fmt"
	"net/http"

	"github.com/voxdroid/tasktrack/internal/model"
)

type createTagIn struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags := s.db.ListTags()
	if tags == nil {
		tags = []model.Tag{}
	}
	writeJSON(w, tags, http.StatusOK)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var in createTagIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Name == "" {
		writeError(w, "name is required", http.StatusBadRequest)
		return
	}

	tag, ok := s.db.CreateTag(in.Name, in.Color)
	if !ok {
		writeError(w, "tag already exists", http.StatusConflict)
		return
	}

	s.db.RecordActivity("created", "tag", tag.ID,
		fmt.Sprintf("created tag %q", tag.Name))
	writeJSON(w, tag, http.StatusCreated)
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	var fields map[string]any
	if !decodeBody(w, r, &fields) {
		return
	}

	res, err := s.db.UpdateTagFields(id, fields)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, "tag not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("updated", "tag", id, "updated tag")
	tag, _ := s.db.GetTag(id)
	writeJSON(w, tag, http.StatusOK)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := s.db.DeleteTag(id)
	if res.RowsAffected == 0 {
		writeError(w, "tag not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("deleted", "tag", id, "deleted tag")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTaskTags(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	tags := s.db.GetTaskTags(id)
	if tags == nil {
		tags = []model.Tag{}
	}
	writeJSON(w, tags, http.StatusOK)
}

func (s *Server) handleTagTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid task id", http.StatusBadRequest)
		return
	}
	tagID, ok := pathID(r, "tagID")
	if !ok {
		writeError(w, "invalid tag id", http.StatusBadRequest)
		return
	}

	if _, found := s.db.GetTask(taskID); !found {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}
	if _, found := s.db.GetTag(tagID); !found {
		writeError(w, "tag not found", http.StatusNotFound)
		return
	}

	s.db.TagTask(taskID, tagID)
	s.db.RecordActivity("updated", "task", taskID,
		fmt.Sprintf("attached tag %d", tagID))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUntagTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid task id", http.StatusBadRequest)
		return
	}
	tagID, ok := pathID(r, "tagID")
	if !ok {
		writeError(w, "invalid tag id", http.StatusBadRequest)
		return
	}

	res := s.db.UntagTask(taskID, tagID)
	if res.RowsAffected == 0 {
		writeError(w, "tag not attached", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("updated", "task", taskID,
		fmt.Sprintf("removed tag %d", tagID))
	w.WriteHeader(http.StatusNoContent)
}
