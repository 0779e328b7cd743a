package handlers

import (
	"errors"
	"net/http"

	"github.com/flowd-io/flowd/store"
)

// StatusHandler handles requests for a single execution's state.
type StatusHandler struct {
	provider StatusProvider
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(provider StatusProvider) *StatusHandler {
	return &StatusHandler{
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	exec, err := h.provider.Status(id)
	if err != nil {
		if errors.Is(err, store.ErrExecutionNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, exec)
}
