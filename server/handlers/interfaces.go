// Package handlers provides HTTP handlers for the flowd server.
//
// Each handler is in its own file and implements http.Handler.
// Handlers use interfaces to access the engine, avoiding circular
// imports.
package handlers

import (
	"github.com/flowd-io/flowd/engine"
	"github.com/flowd-io/flowd/workflow"
)

// WorkflowInvoker submits new workflow executions.
type WorkflowInvoker interface {
	ExecuteWorkflow(workflowID string, inputs map[string]any) (*workflow.Execution, error)
}

// StatusProvider provides access to a single execution's state.
type StatusProvider interface {
	Status(executionID string) (*workflow.Execution, error)
}

// Canceller cancels in-flight executions.
type Canceller interface {
	Cancel(executionID string) error
}

// WorkflowLister lists the registered workflow catalog.
type WorkflowLister interface {
	ListWorkflows() []engine.WorkflowSummary
}

// DefinitionProvider provides access to a full workflow definition.
type DefinitionProvider interface {
	Definition(workflowID string) (*workflow.Definition, error)
}

// ServerStatusProvider provides the aggregate server status.
type ServerStatusProvider interface {
	ServerStatus() engine.ServerStatus
}
