package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	pgpkg "github.com/bibbank/creditrisk/pkg/postgres"
)

const serviceName = "credit-risk-service"

// HealthHandler provides HTTP health check endpoints for the credit risk service.
type HealthHandler struct {
	logger    *slog.Logger
	db        pgpkg.Pinger
	startTime time.Time
}

// NewHealthHandler creates a new health check handler. db may be nil when the
// service runs without persistence.
func NewHealthHandler(db pgpkg.Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		db:        db,
		startTime: time.Now(),
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the JSON response for readiness checks.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// RegisterRoutes registers health endpoints on the provided ServeMux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
}

// Healthz handles liveness probe requests.
func (h *HealthHandler) Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: serviceName,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Readyz handles readiness probe requests.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"model": "ok"}
	code := http.StatusOK
	state := "ready"

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pgpkg.HealthCheck(ctx, h.db); err != nil {
			h.logger.Warn("readiness check failed", slog.String("error", err.Error()))
			checks["database"] = "unavailable"
			code = http.StatusServiceUnavailable
			state = "not_ready"
		} else {
			checks["database"] = "ok"
		}
	}

	writeJSON(w, code, ReadinessResponse{
		Status:  state,
		Service: serviceName,
		Checks:  checks,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
