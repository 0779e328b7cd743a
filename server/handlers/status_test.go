package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowd-io/flowd/store"
	"github.com/flowd-io/flowd/workflow"
)

type mockStatusProvider struct {
	exec *workflow.Execution
	err  error
}

func (m *mockStatusProvider) Status(executionID string) (*workflow.Execution, error) {
	return m.exec, m.err
}

func TestStatusHandler_Found(t *testing.T) {
	exec := workflow.NewExecution("data-processing", nil)
	exec.Status = workflow.StatusRunning
	handler := NewStatusHandler(&mockStatusProvider{exec: exec})

	req := httptest.NewRequest(http.MethodGet, "/api/executions/"+exec.ID, nil)
	req.SetPathValue("id", exec.ID)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), exec.ID)
	assert.Contains(t, w.Body.String(), `"running"`)
}

func TestStatusHandler_NotFound(t *testing.T) {
	handler := NewStatusHandler(&mockStatusProvider{err: store.ErrExecutionNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/executions/abc", nil)
	req.SetPathValue("id", "abc")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
