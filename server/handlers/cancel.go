package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/flowd-io/flowd/engine"
	"github.com/flowd-io/flowd/store"
)

// CancelResponse is returned after a successful cancellation.
type CancelResponse struct {
	ExecutionID string `json:"execution_id"`
	Status      string `json:"status"`
}

// CancelHandler handles requests to cancel an execution.
type CancelHandler struct {
	logger    *slog.Logger
	canceller Canceller
}

// NewCancelHandler creates a new CancelHandler.
func NewCancelHandler(logger *slog.Logger, canceller Canceller) *CancelHandler {
	return &CancelHandler{
		logger:    logger,
		canceller: canceller,
	}
}

// ServeHTTP implements http.Handler.
func (h *CancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.canceller.Cancel(id); err != nil {
		switch {
		case errors.Is(err, store.ErrExecutionNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, engine.ErrInvalidState):
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, engine.ErrEngineClosed), errors.Is(err, engine.ErrQueueFull):
			writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
		default:
			h.logger.Error("failed to cancel execution", "execution_id", id, "error", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, CancelResponse{
		ExecutionID: id,
		Status:      "cancelled",
	})
}
