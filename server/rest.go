package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":          "ok",
		"version":         s.version,
		"time":            time.Now().UTC(),
		"pending_actions": s.queue.Pending(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// cleanupHandler purges stale entries from the in-memory request
// tracking map and the shared caches
func (s *Server) cleanupHandler(w http.ResponseWriter, r *http.Request) {
	purged := s.pending.Purge() + s.states.Purge()
	if s.caches != nil {
		purged += s.caches.PurgeAll()
	}
	log.Printf("[INFO] cleanup purged %d stale entries", purged)
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"purged": purged})
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
