package handlers

import (
	"net/http"
	"time"

	"github.com/campus-events/server/internal/domain/events"
)

// HealthCheck is the body of the readiness probe.
type HealthCheck struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

type CheckResult struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// HealthChecker reports liveness and readiness. Readiness scans every
// stored event for broken invariants.
type HealthChecker struct {
	store   *events.Store
	version string
}

func NewHealthChecker(store *events.Store, version string) *HealthChecker {
	return &HealthChecker{store: store, version: version}
}

// Healthz handles GET /healthz. It only proves the process is serving.
func (h *HealthChecker) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz.
func (h *HealthChecker) Readyz(w http.ResponseWriter, r *http.Request) {
	select {
	case <-r.Context().Done():
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "shutting_down"})
		return
	default:
	}

	checks := map[string]CheckResult{"event_store": h.checkStore()}

	status, code := "healthy", http.StatusOK
	for _, c := range checks {
		if c.Status != "pass" {
			status, code = "unhealthy", http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, HealthCheck{
		Status:    status,
		Version:   h.version,
		Checks:    checks,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthChecker) checkStore() CheckResult {
	start := time.Now()
	err := h.store.Verify()
	result := CheckResult{Status: "pass", LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		result.Status = "fail"
		result.Message = err.Error()
	}
	return result
}
