package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowd-io/flowd/engine"
	"github.com/flowd-io/flowd/store"
	"github.com/flowd-io/flowd/workflow"
)

type mockLister struct {
	summaries []engine.WorkflowSummary
}

func (m *mockLister) ListWorkflows() []engine.WorkflowSummary {
	return m.summaries
}

type mockDefinitionProvider struct {
	def *workflow.Definition
	err error
}

func (m *mockDefinitionProvider) Definition(workflowID string) (*workflow.Definition, error) {
	return m.def, m.err
}

func TestWorkflowsHandler(t *testing.T) {
	lister := &mockLister{summaries: []engine.WorkflowSummary{
		{ID: "data-processing", Name: "Data Processing Pipeline", TaskCount: 3, CreatedAt: time.Now()},
		{ID: "analytics-report", Name: "Analytics Report Generation", TaskCount: 3, CreatedAt: time.Now()},
	}}
	handler := NewWorkflowsHandler(lister)

	req := httptest.NewRequest(http.MethodGet, "/api/workflows", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp WorkflowsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Workflows, 2)
	assert.Equal(t, "data-processing", resp.Workflows[0].ID)
}

func TestWorkflowsHandler_Empty(t *testing.T) {
	handler := NewWorkflowsHandler(&mockLister{})

	req := httptest.NewRequest(http.MethodGet, "/api/workflows", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp WorkflowsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Total)
}

func TestDefinitionHandler_Found(t *testing.T) {
	def := &workflow.Definition{
		ID:   "data-processing",
		Name: "Data Processing Pipeline",
		Tasks: []workflow.Task{
			{ID: "extract", Name: "Extract Data", Kind: workflow.KindDatabaseOperation},
		},
	}
	handler := NewDefinitionHandler(&mockDefinitionProvider{def: def})

	req := httptest.NewRequest(http.MethodGet, "/api/workflows/data-processing", nil)
	req.SetPathValue("id", "data-processing")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Data Processing Pipeline")
	assert.Contains(t, w.Body.String(), "extract")
}

func TestDefinitionHandler_NotFound(t *testing.T) {
	handler := NewDefinitionHandler(&mockDefinitionProvider{err: store.ErrWorkflowNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/workflows/missing", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
