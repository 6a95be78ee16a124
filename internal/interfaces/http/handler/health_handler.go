package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"
	"github.com/hapkiduki/freight-go/internal/application/dto"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	version string
	started time.Time
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler.
//
// Parameters:
//   - version: reported application version
//   - checks: named dependencies pinged by /ready
//
// Returns:
//   - *HealthHandler: the handler
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{
		version: version,
		started: time.Now(),
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

// Health handles GET /health. It never touches dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, dto.HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready handles GET /ready by pinging every registered dependency.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := dto.HealthResponse{
		Status:  "ready",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
		Checks:  make(map[string]dto.HealthCheckResult, len(names)),
	}

	for _, name := range names {
		start := time.Now()
		result := dto.HealthCheckResult{Status: "up"}
		if err := h.checks[name].Ping(ctx); err != nil {
			result.Status = "down"
			result.Message = err.Error()
			resp.Status = "not_ready"
		}
		result.ResponseTime = time.Since(start).Milliseconds()
		resp.Checks[name] = result
	}

	if resp.Status != "ready" {
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}
