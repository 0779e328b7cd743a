package handlers

import (
	"errors"
	"net/http"

	"github.com/flowd-io/flowd/store"
)

// DefinitionHandler handles requests for a full workflow definition.
type DefinitionHandler struct {
	provider DefinitionProvider
}

// NewDefinitionHandler creates a new DefinitionHandler.
func NewDefinitionHandler(provider DefinitionProvider) *DefinitionHandler {
	return &DefinitionHandler{
		provider: provider,
	}
}

// ServeHTTP implements http.Handler.
func (h *DefinitionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	def, err := h.provider.Definition(id)
	if err != nil {
		if errors.Is(err, store.ErrWorkflowNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, def)
}
