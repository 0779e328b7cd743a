package executor

import "fmt"

// Error is the failure value every executor implementation converts task
// failures into; nothing else crosses the executor boundary. The engine uses
// Transient to decide whether the definition's retry policy applies: the
// classification is attached here, never inferred by the engine.
type Error struct {
	// TaskID identifies the failing task.
	TaskID string

	// Timeout is set when the task's configured timeout elapsed.
	Timeout bool

	// Transient marks failures that may succeed on retry.
	Transient bool

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Timeout {
		return fmt.Sprintf("task %s timed out: %v", e.TaskID, e.Err)
	}
	return fmt.Sprintf("task %s failed: %v", e.TaskID, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
