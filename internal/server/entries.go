package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/voxdroid/tasktrack/internal/db"
	"github.com/voxdroid/tasktrack/internal/model"
)

type startEntryIn struct {
	TaskID      int64  `json:"task_id"`
	Description string `json:"description"`
}

func (s *Server) handleStartEntry(w http.ResponseWriter, r *http.Request) {
	var in startEntryIn
	if !decodeBody(w, r, &in) {
		return
	}

	if _, found := s.db.GetTask(in.TaskID); !found {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}

	e, ok := s.db.StartEntry(in.TaskID, in.Description)
	if !ok {
		// The insert is also rejected when the task vanished after the
		// pre-check above; distinguish that from a running timer.
		if _, found := s.db.GetTask(in.TaskID); !found {
			writeError(w, "task not found", http.StatusNotFound)
			return
		}
		writeError(w, "a timer is already running for this task", http.StatusConflict)
		return
	}

	s.db.RecordActivity("started", "time_entry", e.ID,
		fmt.Sprintf("started timer for task %d", in.TaskID))
	writeJSON(w, e, http.StatusCreated)
}

func (s *Server) handleStopEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	if _, found := s.db.GetEntry(id); !found {
		writeError(w, "time entry not found", http.StatusNotFound)
		return
	}

	e, stopped := s.db.StopEntry(id)
	if !stopped {
		writeError(w, "time entry is not running", http.StatusConflict)
		return
	}

	s.db.RecordActivity("stopped", "time_entry", e.ID,
		fmt.Sprintf("stopped timer after %d seconds", e.Elapsed()))
	writeJSON(w, e, http.StatusOK)
}

func (s *Server) handleRunningEntry(w http.ResponseWriter, r *http.Request) {
	var taskID *int64
	if v := r.URL.Query().Get("task_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, "invalid task_id", http.StatusBadRequest)
			return
		}
		taskID = &id
	}

	e, found := s.db.RunningEntry(taskID)
	if !found {
		writeError(w, "no running timer", http.StatusNotFound)
		return
	}
	writeJSON(w, e, http.StatusOK)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	var f db.EntryFilter
	q := r.URL.Query()

	if v := q.Get("task_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, "invalid task_id", http.StatusBadRequest)
			return
		}
		f.TaskID = &id
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		f.Limit = limit
	}

	entries := s.db.ListEntries(f)
	if entries == nil {
		entries = []model.TimeEntry{}
	}
	writeJSON(w, entries, http.StatusOK)
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	var fields map[string]any
	if !decodeBody(w, r, &fields) {
		return
	}
	for _, name := range []string{"start_time", "end_time"} {
		if !timeFieldOK(fields, name) {
			writeError(w, "invalid "+name, http.StatusBadRequest)
			return
		}
	}

	res, err := s.db.UpdateEntryFields(id, fields)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, "time entry not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("updated", "time_entry", id, "updated time entry")
	e, _ := s.db.GetEntry(id)
	writeJSON(w, e, http.StatusOK)
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := s.db.DeleteEntry(id)
	if res.RowsAffected == 0 {
		writeError(w, "time entry not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("deleted", "time_entry", id, "deleted time entry")
	w.WriteHeader(http.StatusNoContent)
}
