package handlers

import "net/http"

// ServerStatusHandler handles requests for the aggregate server status.
type ServerStatusHandler struct {
	provider ServerStatusProvider
}

// NewServerStatusHandler creates a new ServerStatusHandler.
func NewServerStatusHandler(provider ServerStatusProvider) *ServerStatusHandler {
	return &ServerStatusHandler{
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *ServerStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.ServerStatus())
}
