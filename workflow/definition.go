// Package workflow defines the data model for workflow definitions and their
// executions, plus the dependency resolver that linearizes a definition's
// task graph into a valid run order.
//
// A Definition is a reusable DAG of tasks and is immutable once registered.
// An Execution is one runtime instance of running a definition against a set
// of inputs; it is mutated only through the store's update contract.
package workflow

import (
	"time"
)

// Kind identifies the type of work a task performs. The set is closed:
// dispatch over kinds is exhaustive and adding a kind is a deliberate change.
type Kind string

const (
	// KindTemplateGeneration renders content through the template service.
	KindTemplateGeneration Kind = "template_generation"
	// KindDatabaseOperation runs a statement against the database service.
	KindDatabaseOperation Kind = "database_operation"
	// KindAPICall invokes an external API through the gateway service.
	KindAPICall Kind = "api_call"
	// KindAnalyticsCollection gathers metrics from the analytics service.
	KindAnalyticsCollection Kind = "analytics_collection"
	// KindNewsProcessing fetches and processes articles from the news service.
	KindNewsProcessing Kind = "news_processing"
	// KindCustomScript runs a named script through the script runner.
	KindCustomScript Kind = "custom_script"
)

// Kinds returns every task kind the engine can dispatch.
func Kinds() []Kind {
	return []Kind{
		KindTemplateGeneration,
		KindDatabaseOperation,
		KindAPICall,
		KindAnalyticsCollection,
		KindNewsProcessing,
		KindCustomScript,
	}
}

// Task is a single unit of work within a workflow definition.
// The kind-specific fields are populated according to Kind; fields that do
// not apply to the kind are left empty.
type Task struct {
	// ID is unique within the owning definition.
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`

	// TemplateID applies to KindTemplateGeneration.
	TemplateID string `json:"template_id,omitempty"`
	// Operation applies to KindDatabaseOperation.
	Operation string `json:"operation,omitempty"`
	// Endpoint and Method apply to KindAPICall.
	Endpoint string `json:"endpoint,omitempty"`
	Method   string `json:"method,omitempty"`
	// MetricType applies to KindAnalyticsCollection.
	MetricType string `json:"metric_type,omitempty"`
	// Category applies to KindNewsProcessing.
	Category string `json:"category,omitempty"`
	// ScriptType applies to KindCustomScript.
	ScriptType string `json:"script_type,omitempty"`

	// Parameters carries kind-specific call parameters, passed through to the
	// collaborator unmodified.
	Parameters map[string]any `json:"parameters,omitempty"`

	// Timeout bounds a single invocation of this task. Zero means no
	// per-task limit.
	Timeout time.Duration `json:"timeout,omitempty"`

	// RetryCount is the design-time default retry counter.
	RetryCount int `json:"retry_count"`
}

// RetryPolicy governs how the engine retries transient task failures.
// The delay before attempt n is InitialDelay * BackoffMultiplier^n, capped
// at MaxDelay.
type RetryPolicy struct {
	MaxRetries        int           `json:"max_retries"`
	InitialDelay      time.Duration `json:"initial_delay"`
	BackoffMultiplier float64       `json:"backoff_multiplier"`
	MaxDelay          time.Duration `json:"max_delay"`
}

// DefaultRetryPolicy returns the policy applied to definitions that do not
// specify their own.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:        3,
		InitialDelay:      time.Second,
		BackoffMultiplier: 2.0,
		MaxDelay:          30 * time.Second,
	}
}

// Delay returns the backoff delay before the given retry attempt
// (attempt 0 is the first retry).
func (p RetryPolicy) Delay(attempt int) time.Duration {
	delay := float64(p.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= p.BackoffMultiplier
	}
	if max := float64(p.MaxDelay); p.MaxDelay > 0 && delay > max {
		delay = max
	}
	return time.Duration(delay)
}

// Definition is a reusable workflow: an ordered list of tasks plus the
// dependency edges between them. Definitions are immutable after
// registration with the catalog.
type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	// Tasks in declaration order. Declaration order is the tie-break the
	// resolver uses among tasks that become eligible simultaneously.
	Tasks []Task `json:"tasks"`

	// Dependencies maps a task ID to the IDs of tasks that must complete
	// before it may run. Tasks absent from the map have no prerequisites.
	Dependencies map[string][]string `json:"dependencies"`

	// Timeout bounds the whole execution. Zero means no overall limit.
	Timeout time.Duration `json:"timeout,omitempty"`

	Retry     RetryPolicy `json:"retry_policy"`
	CreatedAt time.Time   `json:"created_at"`
}

// TaskByID returns the task with the given ID, or nil if the definition has
// no such task.
func (d *Definition) TaskByID(id string) *Task {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return &d.Tasks[i]
		}
	}
	return nil
}
