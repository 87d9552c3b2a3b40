package api

import (
	"encoding/json"
	"net/http"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	statsProvider StatsProvider
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(statsProvider StatsProvider) *HealthHandler {
	return &HealthHandler{statsProvider: statsProvider}
}

type healthResponse struct {
	Status string `json:"status"`
	Driver string `json:"driver,omitempty"`
}

// HandleHealth handles GET /healthz requests. It answers 503 until the service
// has started.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats := h.statsProvider.GetStats()
	resp := healthResponse{Status: "ok"}
	if driver, ok := stats["driver"].(string); ok {
		resp.Driver = driver
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if started, _ := stats["started"].(bool); !started {
		resp.Status = "starting"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}
