package server

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/voxdroid/tasktrack/internal/db"
	"github.com/voxdroid/tasktrack/internal/model"
)

type createTaskIn struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   *int64 `json:"project_id"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
	DueDate     string `json:"due_date"` // RFC3339
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var f db.TaskFilter
	q := r.URL.Query()

	if v := q.Get("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, "invalid project_id", http.StatusBadRequest)
			return
		}
		f.ProjectID = &id
	}
	if v := q.Get("status"); v != "" {
		if !model.Status(v).Valid() {
			writeError(w, "invalid status", http.StatusBadRequest)
			return
		}
		f.Status = model.Status(v)
	}
	if v := q.Get("priority"); v != "" {
		if !model.Priority(v).Valid() {
			writeError(w, "invalid priority", http.StatusBadRequest)
			return
		}
		f.Priority = model.Priority(v)
	}
	if v := q.Get("favorite"); v != "" {
		fav := v == "true" || v == "1"
		f.Favorite = &fav
	}

	due := q.Get("due")
	if due != "" && due != "overdue" && due != "today" {
		writeError(w, "invalid due", http.StatusBadRequest)
		return
	}

	tasks := s.db.ListTasks(f)
	if due != "" {
		kept := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if (due == "overdue" && t.IsOverdue()) ||
				(due == "today" && t.IsDueToday()) {
				kept = append(kept, t)
			}
		}
		// Due work surfaces the most urgent items first.
		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].PriorityWeight() > kept[j].PriorityWeight()
		})
		tasks = kept
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, tasks, http.StatusOK)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskIn
	if !decodeBody(w, r, &in) {
		return
	}
	if in.Title == "" {
		writeError(w, "title is required", http.StatusBadRequest)
		return
	}
	if in.Priority != "" && !model.Priority(in.Priority).Valid() {
		writeError(w, "invalid priority", http.StatusBadRequest)
		return
	}
	if in.ProjectID != nil {
		p, found := s.db.GetProject(*in.ProjectID)
		if !found {
			writeError(w, "project not found", http.StatusBadRequest)
			return
		}
		if p.IsArchived() {
			writeError(w, "project is archived", http.StatusBadRequest)
			return
		}
	}

	nt := db.NewTask{
		Title:       in.Title,
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Priority:    model.Priority(in.Priority),
		Assignee:    in.Assignee,
	}
	if in.DueDate != "" {
		due, err := time.Parse(time.RFC3339, in.DueDate)
		if err != nil {
			writeError(w, "invalid due_date", http.StatusBadRequest)
			return
		}
		nt.DueDate = &due
	}

	t, ok := s.db.CreateTask(nt)
	if !ok {
		// The project may have vanished after the pre-check above.
		if in.ProjectID != nil {
			if _, found := s.db.GetProject(*in.ProjectID); !found {
				writeError(w, "project not found", http.StatusBadRequest)
				return
			}
		}
		writeError(w, "failed to create task", http.StatusInternalServerError)
		return
	}

	s.db.RecordActivity("created", "task", t.ID,
		fmt.Sprintf("created task %q", t.Title))
	writeJSON(w, t, http.StatusCreated)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	t, found := s.db.GetTask(id)
	if !found {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}
	t.Tags = s.db.GetTaskTags(id)
	writeJSON(w, t, http.StatusOK)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
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
		if !isStr || !model.Status(status).Valid() {
			writeError(w, "invalid status", http.StatusBadRequest)
			return
		}
	}
	if v, present := fields["priority"]; present {
		priority, isStr := v.(string)
		if !isStr || !model.Priority(priority).Valid() {
			writeError(w, "invalid priority", http.StatusBadRequest)
			return
		}
	}
	for _, name := range []string{"due_date", "completed_at"} {
		if !timeFieldOK(fields, name) {
			writeError(w, "invalid "+name, http.StatusBadRequest)
			return
		}
	}

	res, err := s.db.UpdateTaskFields(id, fields)
	if err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("updated", "task", id, "updated task")
	t, _ := s.db.GetTask(id)
	writeJSON(w, t, http.StatusOK)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeError(w, "invalid id", http.StatusBadRequest)
		return
	}

	res := s.db.DeleteTask(id)
	if res.RowsAffected == 0 {
		writeError(w, "task not found", http.StatusNotFound)
		return
	}

	s.db.RecordActivity("deleted", "task", id, "deleted task")
	w.WriteHeader(http.StatusNoContent)
}
