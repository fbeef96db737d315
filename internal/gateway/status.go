package gateway

import (
	"encoding/json"
	"net/http"
	"time"
)

// StatusResponse is the JSON response for GET /status.
type StatusResponse struct {
	Version string          `json:"version"`
	Model   string          `json:"model"`
	Uptime  string          `json:"uptime"`
	Metrics MetricsSnapshot `json:"metrics"`
}

// handleStatus returns an http.HandlerFunc for GET /status.
func (s *Server) handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := StatusResponse{
			Version: s.version,
			Model:   s.model,
			Uptime:  time.Since(s.startedAt).Round(time.Second).String(),
			Metrics: s.metrics.Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
