package server

import (
	"net/http"

	"github.com/voxdroid/tasktrack/internal/db"
)

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.db.Export(), http.StatusOK)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var doc db.ExportDocument
	if !decodeBody(w, r, &doc) {
		return
	}

	if err := s.db.Import(doc); err != nil {
		s.log.Error("import failed", "err", err)
		writeError(w, "import failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
