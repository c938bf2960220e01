package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/authbase/authbase/internal/handler/dto"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a HealthHandler. Pass nil for db or cache
// if they are not yet initialized.
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// Health handles GET /health. It reports liveness only; dependency
// checks are deliberately excluded so a degraded cache or store does
// not flap the load balancer.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Success:   true,
		Message:   "Server is running",
		Timestamp: time.Now().UTC(),
	})
}

const readyCheckTimeout = 5 * time.Second

// Ready handles GET /ready. It pings every dependency and returns 503
// until all of them answer, so an orchestrator can hold traffic back
// from an instance whose store or cache is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	check := func(name string, dep HealthChecker) {
		if dep == nil {
			checks[name] = "not configured"
			return
		}
		if err := dep.Ping(ctx); err != nil {
			checks[name] = "error: " + err.Error()
			healthy = false
			return
		}
		checks[name] = "ok"
	}
	check("postgres", h.db)
	check("redis", h.cache)

	status := http.StatusOK
	message := "Ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		message = "Not ready"
	}

	writeJSON(w, status, dto.ReadyResponse{
		Success: healthy,
		Message: message,
		Checks:  checks,
	})
}
