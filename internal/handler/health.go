package handler

import (
	"database/sql"
	"net/http"

	"github.com/dukerupert/earnlearn/internal/database"
)

// Health handles GET /health, reporting the applied schema version.
func Health(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		version, err := database.Version(db)
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "schema_version": version})
	}
}
