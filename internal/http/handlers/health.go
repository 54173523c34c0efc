package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spendlog/spendlog-be/internal/http/respond"
)

// HealthHandler returns uptime and basic status.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time) *HealthHandler {
	return &HealthHandler{startedAt: startedAt}
}

// Register wires the handler into the router.
func (h *HealthHandler) Register(r chi.Router) {
	r.Get("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"uptime": time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
