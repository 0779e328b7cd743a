package handlers

import (
	"net/http"

	"github.com/flowd-io/flowd/engine"
)

// WorkflowsResponse is the JSON response for the workflow catalog listing.
type WorkflowsResponse struct {
	Workflows []engine.WorkflowSummary `json:"workflows"`
	Total     int                      `json:"total"`
}

// WorkflowsHandler handles requests to list the workflow catalog.
type WorkflowsHandler struct {
	lister WorkflowLister
}

// NewWorkflowsHandler creates a new WorkflowsHandler.
func NewWorkflowsHandler(lister WorkflowLister) *WorkflowsHandler {
	return &WorkflowsHandler{
		lister: lister,
	}
}

// ServeHTTP implements http.Handler.
func (h *WorkflowsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	workflows := h.lister.ListWorkflows()

	writeJSON(w, http.StatusOK, WorkflowsResponse{
		Workflows: workflows,
		Total:     len(workflows),
	})
}
