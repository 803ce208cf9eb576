package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger checks that the persistence gateway is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	ping    Pinger
	timeout time.Duration
	backend string
}

func NewHealthHandler(ping Pinger, backend string, timeout time.Duration) *HealthHandler {
	return &HealthHandler{ping: ping, backend: backend, timeout: timeout}
}

// Live godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Database godoc
// @Summary Storage readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health/db [get]
func (h *HealthHandler) Database(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		slog.WarnContext(r.Context(), "storage ping failed", slog.String("backend", h.backend), slog.Any("error", err))
		errorResponse(w, r, http.StatusServiceUnavailable, "storage unavailable: "+err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok", "backend": h.backend}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
