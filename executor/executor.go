// Package executor runs individual workflow tasks.
//
// An Executor receives one task, dispatches on its kind and returns a
// structured output payload or an *Error. Executors never mutate engine or
// store state; all bookkeeping stays on the engine side of the contract.
//
// The Local executor dispatches to in-process collaborator stubs that stand
// in for the template, database, API gateway, analytics, news and script
// services. Per-task timeouts are enforced here: exceeding one yields an
// *Error with Timeout set.
package executor

import (
	"context"
	"time"

	"github.com/flowd-io/flowd/workflow"
)

// Executor runs a single task and returns its output payload.
type Executor interface {
	Execute(ctx context.Context, task *workflow.Task) (map[string]any, error)
}

// Func adapts a function to the Executor interface.
type Func func(ctx context.Context, task *workflow.Task) (map[string]any, error)

// Execute implements Executor.
func (f Func) Execute(ctx context.Context, task *workflow.Task) (map[string]any, error) {
	return f(ctx, task)
}

// Local executes tasks against in-process collaborator stubs with simulated
// service latency per task kind.
type Local struct {
	latency func(workflow.Kind) time.Duration
}

// Option configures a Local executor.
type Option func(*Local)

// WithLatency overrides the simulated per-kind service latency.
// Useful to make tests fast.
func WithLatency(fn func(workflow.Kind) time.Duration) Option {
	return func(l *Local) {
		l.latency = fn
	}
}

// NewLocal creates a Local executor.
func NewLocal(opts ...Option) *Local {
	l := &Local{
		latency: defaultLatency,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// defaultLatency mirrors the relative cost of each collaborator call.
func defaultLatency(kind workflow.Kind) time.Duration {
	switch kind {
	case workflow.KindDatabaseOperation:
		return 50 * time.Millisecond
	case workflow.KindAPICall:
		return 100 * time.Millisecond
	case workflow.KindTemplateGeneration:
		return 75 * time.Millisecond
	case workflow.KindAnalyticsCollection:
		return 80 * time.Millisecond
	case workflow.KindNewsProcessing:
		return 60 * time.Millisecond
	case workflow.KindCustomScript:
		return 120 * time.Millisecond
	default:
		return 50 * time.Millisecond
	}
}

// Execute dispatches the task to its collaborator stub. The task's timeout,
// if set, bounds the call; exceeding it returns a timeout *Error. Context
// cancellation and deadline failures are classified transient since a later
// attempt may succeed.
func (l *Local) Execute(ctx context.Context, task *workflow.Task) (map[string]any, error) {
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	if err := sleep(ctx, l.latency(task.Kind)); err != nil {
		return nil, &Error{
			TaskID:    task.ID,
			Timeout:   ctx.Err() == context.DeadlineExceeded,
			Transient: true,
			Err:       err,
		}
	}

	return l.invoke(task), nil
}

// invoke calls the collaborator stub for the task's kind and shapes its
// response. The switch is exhaustive over the closed kind set.
func (l *Local) invoke(task *workflow.Task) map[string]any {
	switch task.Kind {
	case workflow.KindTemplateGeneration:
		return map[string]any{
			"template_id":    task.TemplateID,
			"content_length": 2048,
			"format":         "html",
		}
	case workflow.KindDatabaseOperation:
		return map[string]any{
			"operation":     task.Operation,
			"rows_affected": 42,
		}
	case workflow.KindAPICall:
		return map[string]any{
			"endpoint":      task.Endpoint,
			"method":        task.Method,
			"status_code":   200,
			"response_size": 1024,
		}
	case workflow.KindAnalyticsCollection:
		return map[string]any{
			"metric_type": task.MetricType,
			"data_points": 100,
			"timespan":    "24h",
		}
	case workflow.KindNewsProcessing:
		return map[string]any{
			"category":           task.Category,
			"articles_processed": 15,
			"summary_generated":  true,
		}
	case workflow.KindCustomScript:
		return map[string]any{
			"script_type":  task.ScriptType,
			"exit_code":    0,
			"output_lines": 25,
		}
	default:
		return map[string]any{}
	}
}

// sleep waits for d or until the context is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
