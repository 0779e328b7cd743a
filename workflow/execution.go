package workflow

import (
	"time"

	"github.com/google/uuid"
)

// Execution is one runtime instance of a workflow definition. It is owned by
// the execution store; the engine reads, mutates and writes it back under the
// store's locking discipline and holds no private copy once committed.
type Execution struct {
	ID          string                `json:"execution_id"`
	WorkflowID  string                `json:"workflow_id"`
	Status      Status                `json:"status"`
	StartedAt   time.Time             `json:"started_at"`
	CompletedAt *time.Time            `json:"completed_at,omitempty"`
	TaskStates  map[string]*TaskState `json:"task_states"`
	Inputs      map[string]any        `json:"inputs"`
	Outputs     map[string]any        `json:"outputs,omitempty"`
	ErrorMsg    string                `json:"error_message,omitempty"`

	// Progress is the integer percentage of tasks that have completed,
	// derived as completed*100/total. Only the engine goroutine driving this
	// execution writes it.
	Progress int `json:"progress_percentage"`
}

// TaskState tracks one task's progress within an execution. States are
// created lazily the first time a task begins executing and never removed.
type TaskState struct {
	TaskID      string         `json:"task_id"`
	Status      Status         `json:"status"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	RetryCount  int            `json:"retry_count"`
	ErrorMsg    string         `json:"error_message,omitempty"`
	Outputs     map[string]any `json:"outputs,omitempty"`
}

// NewExecution creates a Pending execution for the given workflow with a
// freshly generated execution ID.
func NewExecution(workflowID string, inputs map[string]any) *Execution {
	if inputs == nil {
		inputs = map[string]any{}
	}
	return &Execution{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		Status:     StatusPending,
		StartedAt:  time.Now(),
		TaskStates: make(map[string]*TaskState),
		Inputs:     inputs,
	}
}

// Clone returns a deep copy. The store hands out clones so that readers
// never alias the record the engine is mutating.
func (e *Execution) Clone() *Execution {
	c := *e
	c.TaskStates = make(map[string]*TaskState, len(e.TaskStates))
	for id, ts := range e.TaskStates {
		tc := *ts
		c.TaskStates[id] = &tc
	}
	c.Inputs = copyValues(e.Inputs)
	c.Outputs = copyValues(e.Outputs)
	if e.CompletedAt != nil {
		t := *e.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// CompletedTasks returns the number of tasks that have completed
// successfully so far.
func (e *Execution) CompletedTasks() int {
	n := 0
	for _, ts := range e.TaskStates {
		if ts.Status == StatusCompleted {
			n++
		}
	}
	return n
}

// copyValues shallow-copies a payload map. Nested values are treated as
// immutable once recorded.
func copyValues(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
