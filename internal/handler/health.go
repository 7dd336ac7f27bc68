package handler

import (
	"context"
	"net/http"
	"time"
)

const healthTimeout = 3 * time.Second

// GetHealth handles GET /healthz.
// Every registered dependency check runs under a shared timeout. It returns
// 200 when all pass and 503 with the failing names marked "error" otherwise.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: make(map[string]CheckResult, len(s.checks))}
	status := http.StatusOK

	for name, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			s.log.ErrorContext(ctx, "health check failed", "name", name, "error", err)
			resp.Checks[name] = CheckResult{Status: "error"}
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = CheckResult{Status: "ok"}
	}

	writeJSON(w, status, resp)
}
