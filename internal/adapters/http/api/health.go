package api

import "net/http"

// HealthHandler serves liveness and service information. It needs no
// engine state.
type HealthHandler struct {
	version string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type rootResponse struct {
	Message       string `json:"message"`
	Documentation string `json:"documentation"`
	HealthCheck   string `json:"health_check"`
	Version       string `json:"version"`
}

// HandleHealth handles GET /healthz.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: h.version})
}

// HandleRoot handles GET /.
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message:       "PeerHire freelancer recommendation API",
		Documentation: "/api-docs",
		HealthCheck:   "/healthz",
		Version:       h.version,
	})
}
