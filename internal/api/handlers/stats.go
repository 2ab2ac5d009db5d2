package handlers

import (
	"net/http"
	"time"

	"github.com/campus-events/server/internal/domain/events"
)

// StatsHandler serves the dashboard summary.
type StatsHandler struct {
	compute   func() events.Stats
	startTime time.Time
}

func NewStatsHandler(compute func() events.Stats, startTime time.Time) *StatsHandler {
	return &StatsHandler{compute: compute, startTime: startTime}
}

type StatsResponse struct {
	events.Stats
	Uptime    int64  `json:"uptimeSeconds"`
	Timestamp string `json:"timestamp"`
}

// GetStats handles GET /api/v1/stats.
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	writeJSON(w, http.StatusOK, StatsResponse{
		Stats:     h.compute(),
		Uptime:    int64(now.Sub(h.startTime).Seconds()),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}
