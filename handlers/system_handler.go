package handlers

import (
	"context"
	"net/http"

	"city-server/middleware"
	"city-server/models"
)

// StatsProvider computes the cross-store aggregate.
type StatsProvider interface {
	Overview(ctx context.Context) (*models.Stats, error)
}

// HealthChecker probes the backends.
type HealthChecker interface {
	Check(ctx context.Context) *models.HealthStatus
}

type SystemHandler struct {
	statsService  StatsProvider
	healthService HealthChecker
}

func NewSystemHandler(statsService StatsProvider, healthService HealthChecker) *SystemHandler {
	return &SystemHandler{statsService: statsService, healthService: healthService}
}

// Health handles GET /health. Always 200; degraded backends are reported in
// the body so orchestrators and the dashboard can tell them apart.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.healthService.Check(r.Context()))
}

// Stats handles GET /api/stats.
func (h *SystemHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Overview(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Root handles GET /, returning API metadata and useful links.
func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":         "City Data Platform API",
		"version":      "1.0.0",
		"description":  "City open data with MySQL, MongoDB, and Redis",
		"health_check": "/health",
		"stats":        "/api/stats",
	})
}
