package workflow

import (
	"encoding/json"
	"fmt"
)

// Status represents the lifecycle state of an execution or of a single task
// within an execution.
type Status int

const (
	// StatusPending indicates the execution has been accepted but the engine
	// has not started processing it yet.
	StatusPending Status = iota

	// StatusRunning indicates the engine is currently driving the execution
	// (or task) forward.
	StatusRunning

	// StatusCompleted indicates all work finished successfully.
	StatusCompleted

	// StatusFailed indicates a task failed and the execution stopped.
	StatusFailed

	// StatusCancelled indicates the execution was cancelled by request.
	StatusCancelled

	// StatusPaused is declared for wire compatibility with clients of the
	// original workflow server. No transition in this engine produces it.
	StatusPaused
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a final state. Terminal executions
// accept no further commands.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "pending":
		*s = StatusPending
	case "running":
		*s = StatusRunning
	case "completed":
		*s = StatusCompleted
	case "failed":
		*s = StatusFailed
	case "cancelled":
		*s = StatusCancelled
	case "paused":
		*s = StatusPaused
	default:
		return fmt.Errorf("unknown status %q", name)
	}
	return nil
}
