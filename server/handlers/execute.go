package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/flowd-io/flowd/engine"
	"github.com/flowd-io/flowd/store"
)

// ExecuteRequest defines the request body for POST /api/executions.
type ExecuteRequest struct {
	WorkflowID string         `json:"workflow_id"`
	Inputs     map[string]any `json:"inputs"`
}

// ExecuteHandler handles requests to start a workflow execution.
type ExecuteHandler struct {
	logger  *slog.Logger
	invoker WorkflowInvoker
}

// NewExecuteHandler creates a new ExecuteHandler.
func NewExecuteHandler(logger *slog.Logger, invoker WorkflowInvoker) *ExecuteHandler {
	return &ExecuteHandler{
		logger:  logger,
		invoker: invoker,
	}
}

// ServeHTTP implements http.Handler.
func (h *ExecuteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("invalid JSON: %v", err),
		})
		return
	}

	if req.WorkflowID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "workflow_id is required",
		})
		return
	}

	exec, err := h.invoker.ExecuteWorkflow(req.WorkflowID, req.Inputs)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrWorkflowNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, engine.ErrEngineClosed), errors.Is(err, engine.ErrQueueFull):
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		default:
			h.logger.Error("failed to start execution", "workflow_id", req.WorkflowID, "error", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusAccepted, exec)
}
