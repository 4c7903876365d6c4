package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/voxdroid/tasktrack/internal/db"
)

// Server exposes the store over a REST API. It holds no state of its own
// beyond the store handle and logger.
type Server struct {
	db  *db.DB
	log *slog.Logger
}

// New creates a Server backed by the given store
func New(database *db.DB, logger *slog.Logger) *Server {
	return &Server{db: database, log: logger}
}

// Handler returns the routed HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PATCH /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("POST /api/tasks", s.handleCreateTask)
	mux.HandleFunc("GET /api/tasks/{id}", s.handleGetTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", s.handleUpdateTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.handleDeleteTask)
	mux.HandleFunc("GET /api/tasks/{id}/tags", s.handleGetTaskTags)
	mux.HandleFunc("POST /api/tasks/{id}/tags/{tagID}", s.handleTagTask)
	mux.HandleFunc("DELETE /api/tasks/{id}/tags/{tagID}", s.handleUntagTask)

	mux.HandleFunc("GET /api/tags", s.handleListTags)
	mux.HandleFunc("POST /api/tags", s.handleCreateTag)
	mux.HandleFunc("PATCH /api/tags/{id}", s.handleUpdateTag)
	mux.HandleFunc("DELETE /api/tags/{id}", s.handleDeleteTag)

	mux.HandleFunc("GET /api/time-entries", s.handleListEntries)
	mux.HandleFunc("POST /api/time-entries", s.handleStartEntry)
	mux.HandleFunc("GET /api/time-entries/running", s.handleRunningEntry)
	mux.HandleFunc("POST /api/time-entries/{id}/stop", s.handleStopEntry)
	mux.HandleFunc("PATCH /api/time-entries/{id}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /api/time-entries/{id}", s.handleDeleteEntry)

	mux.HandleFunc("GET /api/activity", s.handleListActivity)

	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)

	return s.requestLogger(mux)
}

// requestLogger tags each request with an ID and logs it on completion
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.New().String()
		w.Header().Set("X-Request-ID", reqID)

		start := time.Now()
		next.ServeHTTP(w, r)

		s.log.Info("request",
			"id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed_ms", time.Since(start).Milliseconds())
	})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil
}

// timeFieldOK reports whether a patch field, when present, is either null
// (clearing the column) or an RFC3339 string.
func timeFieldOK(fields map[string]any, name string) bool {
	v, present := fields[name]
	if !present || v == nil {
		return true
	}
	s, isStr := v.(string)
	if !isStr {
		return false
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	backend := "sqlite"
	if s.db.InMemory() {
		backend = "memory"
	}
	writeJSON(w, map[string]any{
		"status":   "ok",
		"backend":  backend,
		"degraded": s.db.Degraded(),
	}, http.StatusOK)
}
