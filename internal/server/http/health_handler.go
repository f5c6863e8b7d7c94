package http

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/resumebuilder/internal/logging"
)

const pingTimeout = 2 * time.Second

type HealthHandler struct {
	db      Pinger
	version string
	logger  logging.Logger
	now     func() time.Time
}

func NewHealthHandler(db Pinger, version string, logger logging.Logger) *HealthHandler {
	return &HealthHandler{db: db, version: version, logger: logger, now: time.Now}
}

type rootResponse struct {
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message:   "ResumeBuilder API",
		Version:   h.version,
		Status:    "healthy",
		Timestamp: h.now().UTC(),
	})
}

// Healthz answers 503 while the database is unreachable.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.Warn(r.Context(), "database ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
