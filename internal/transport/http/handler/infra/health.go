package infra

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/chatrelay/internal/transport/http/handler/shared"
	"github.com/mandalnilabja/chatrelay/internal/version"
)

// RootStatus returns JSON status and version information at /.
func (h *Handlers) RootStatus(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"name":                "chatrelay",
		"version":             version.Version,
		"status":              "running",
		"chat":                "/api/chat",
		"upstream_configured": h.UpstreamConfigured,
		"uptime_seconds":      int64(time.Since(h.StartTime).Seconds()),
	}
	shared.WriteJSON(w, response, http.StatusOK)
}

// HealthCheck handler returns the application health status.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status": "active",
		"app":    "chatrelay",
	}
	shared.WriteJSON(w, response, http.StatusOK)
}

// NotFound answers unknown routes with the relay's JSON error shape.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSONError(w, "not found", http.StatusNotFound)
}
