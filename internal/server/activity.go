package server

import (
	"net/http"
	"strconv"

	"github.com/voxdroid/tasktrack/internal/db"
	"github.com/voxdroid/tasktrack/internal/model"
)

const defaultActivityLimit = 100

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	f := db.ActivityFilter{Limit: defaultActivityLimit}
	q := r.URL.Query()

	if v := q.Get("entity_type"); v != "" {
		f.EntityType = v
	}
	if v := q.Get("entity_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, "invalid entity_id", http.StatusBadRequest)
			return
		}
		f.EntityID = &id
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		f.Limit = limit
	}

	entries := s.db.ListActivity(f)
	if entries == nil {
		entries = []model.ActivityEntry{}
	}
	writeJSON(w, entries, http.StatusOK)
}
