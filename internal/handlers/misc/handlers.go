package misc

import (
	"net/http"

	"github.com/vlatan/reels-mixer/internal/models"
	"github.com/vlatan/reels-mixer/internal/utils"
)

// DB and Redis health status.
// Served only in debug mode or to signed-in users.
func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {

	visitor := models.GetVisitorFromContext(r)
	if !s.config.Debug && !visitor.IsAuthenticated() {
		utils.JSONError(w, r, http.StatusNotFound, "")
		return
	}

	// Construct joined map
	data := map[string]any{
		"redis_status":    s.rdb.Health(r.Context()),
		"database_status": s.db.Health(r.Context()),
		"server_status":   getServerStats(),
	}

	utils.WriteJSON(w, r, http.StatusOK, data)
}

// Liveness probe
func (s *Service) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
