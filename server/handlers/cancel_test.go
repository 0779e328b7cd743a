package handlers

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowd-io/flowd/engine"
	"github.com/flowd-io/flowd/store"
)

type mockCanceller struct {
	err error
	id  string
}

func (m *mockCanceller) Cancel(executionID string) error {
	m.id = executionID
	return m.err
}

func TestCancelHandler_Success(t *testing.T) {
	canceller := &mockCanceller{}
	handler := NewCancelHandler(slog.Default(), canceller)

	req := httptest.NewRequest(http.MethodDelete, "/api/executions/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", canceller.id)
	assert.Contains(t, w.Body.String(), `"cancelled"`)
}

func TestCancelHandler_NotFound(t *testing.T) {
	handler := NewCancelHandler(slog.Default(), &mockCanceller{err: store.ErrExecutionNotFound})

	req := httptest.NewRequest(http.MethodDelete, "/api/executions/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelHandler_AlreadyTerminal(t *testing.T) {
	handler := NewCancelHandler(slog.Default(), &mockCanceller{err: engine.ErrInvalidState})

	req := httptest.NewRequest(http.MethodDelete, "/api/executions/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}
