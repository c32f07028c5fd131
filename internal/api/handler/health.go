package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/pricebook/pricebook/internal/api/middleware"
	"github.com/pricebook/pricebook/internal/api/response"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck names a dependency probed by GET /health.
type HealthCheck struct {
	Name   string
	Pinger Pinger
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	checks  []HealthCheck
	version string
	timeout time.Duration
}

// NewHealthHandler creates a new HealthHandler. Checks with a nil Pinger are
// reported as not configured.
func NewHealthHandler(version string, checks ...HealthCheck) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		version: version,
		timeout: 2 * time.Second,
	}
}

type dependencyStatus struct {
	Configured bool `json:"configured"`
	Connected  bool `json:"connected"`
}

type healthData struct {
	Status       string                      `json:"status"`
	Version      string                      `json:"version"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := "healthy"
	deps := make(map[string]dependencyStatus, len(h.checks))
	for _, c := range h.checks {
		if c.Pinger == nil {
			deps[c.Name] = dependencyStatus{}
			continue
		}
		ds := dependencyStatus{Configured: true, Connected: true}
		if err := c.Pinger.Ping(ctx); err != nil {
			slog.Warn("health check failed", "dependency", c.Name, "error", err)
			ds.Connected = false
			status = "degraded"
		}
		deps[c.Name] = ds
	}

	response.Success(w, http.StatusOK, healthData{
		Status:       status,
		Version:      h.version,
		Dependencies: deps,
	}, requestID)
}
