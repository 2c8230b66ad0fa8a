package handlers

import (
	"net/http"
	"time"

	app "github.com/turtacn/CaseTrack-Analytics/internal/application/analytics"
)

// HealthHandler serves the liveness, readiness and debug endpoints.
type HealthHandler struct {
	service          *app.Service
	readinessTimeout time.Duration
}

// NewHealthHandler builds the handler.
func NewHealthHandler(service *app.Service, readinessTimeout time.Duration) *HealthHandler {
	return &HealthHandler{service: service, readinessTimeout: readinessTimeout}
}

// Liveness handles GET /healthz: the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /readyz: both upstreams must answer a ping within
// the configured window. A degraded state still returns the per-upstream
// detail, with 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	resp := h.service.Readiness(r.Context(), h.readinessTimeout)
	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// DebugDeadlines handles GET /debug/deadlines.
func (h *HealthHandler) DebugDeadlines(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DebugDeadlines(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
