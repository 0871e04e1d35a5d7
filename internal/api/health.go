package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kjannette/gold-scraper/internal/db"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := db.Liveness(r.Context(), s.store); err != nil {
		s.log.Error("health check failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, healthResponse{
			Status: "unhealthy",
			Detail: "database connection failed: " + err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Message: "Database connection is healthy",
	})
}
