package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is the part of the store the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db      Pinger
	backend string
	logger  *slog.Logger
}

// NewHealthHandler reports backend ("sqlite" or "postgres") in every answer.
func NewHealthHandler(db Pinger, backend string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, backend: backend, logger: logger}
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HandleHealth pings the database.
//
// HTTP: GET /health → 200 {"status":"ok","database":"sqlite"}
// or 503 {"status":"unavailable",...} when the ping fails.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Database: h.backend})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Database: h.backend})
}
