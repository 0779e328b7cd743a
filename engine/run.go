package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowd-io/flowd/executor"
	"github.com/flowd-io/flowd/workflow"
)

// runExecution drives one execution from Pending to a terminal state. It is
// the only goroutine mutating this execution's task states and progress;
// cancellation arrives through the store and is observed at task boundaries.
func (e *Engine) runExecution(ctx context.Context, executionID string) {
	logger := e.logger.With("execution_id", executionID)

	// Pending → Running. A cancel that arrived before we were dequeued wins.
	err := e.executions.Update(executionID, func(x *workflow.Execution) error {
		if x.Status != workflow.StatusPending {
			return fmt.Errorf("%w: status is %s", errSuperseded, x.Status)
		}
		x.Status = workflow.StatusRunning
		return nil
	})
	if err != nil {
		logger.Info("execution not started", "reason", err)
		return
	}

	snapshot, err := e.executions.Get(executionID)
	if err != nil {
		logger.Error("execution record disappeared", "error", err)
		return
	}
	started := snapshot.StartedAt

	def, err := e.catalog.Get(snapshot.WorkflowID)
	if err != nil {
		e.failExecution(executionID, started, err, logger)
		return
	}

	order, err := workflow.Resolve(def.Tasks, def.Dependencies)
	if err != nil {
		// A bad dependency map fails the execution, not the catalog.
		e.failExecution(executionID, started, err, logger)
		return
	}

	if def.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, def.Timeout)
		defer cancel()
	}

	logger.Info("execution running", "workflow_id", def.ID, "tasks", len(order))

	total := len(order)
	for i, taskID := range order {
		if e.observeCancelled(executionID) {
			logger.Info("execution cancelled at task boundary", "task_id", taskID)
			return
		}

		task := def.TaskByID(taskID)
		if task == nil {
			e.failExecution(executionID, started, fmt.Errorf("task %s not found in workflow %s", taskID, def.ID), logger)
			return
		}

		e.markTaskRunning(executionID, taskID)

		outputs, retries, taskErr := e.runTask(ctx, def.Retry, task, logger)
		finished := time.Now()

		if taskErr != nil {
			e.recordTaskFailure(executionID, started, task, retries, finished, taskErr, logger)
			return
		}

		// The task's result is committed unconditionally: a concurrent
		// cancel decides the execution's fate, not what the task did.
		_ = e.executions.Update(executionID, func(x *workflow.Execution) error {
			ts := x.TaskStates[taskID]
			ts.Status = workflow.StatusCompleted
			ts.CompletedAt = &finished
			ts.RetryCount = retries
			ts.Outputs = outputs
			return nil
		})

		// Progress counts completed tasks only. The final step's write is
		// left to completeExecution so pollers never observe full progress
		// on a Running execution.
		progress := (i + 1) * 100 / total
		superseded := e.executions.Update(executionID, func(x *workflow.Execution) error {
			if x.Status == workflow.StatusCancelled {
				return errSuperseded
			}
			if progress < 100 {
				x.Progress = progress
			}
			return nil
		})
		if errors.Is(superseded, errSuperseded) {
			logger.Info("execution cancelled during task", "task_id", taskID)
			return
		}

		logger.Debug("task completed", "task_id", taskID, "progress", progress)

		if i < total-1 {
			// Inter-task pacing. Interruption surfaces at the next boundary
			// check or task call.
			_ = sleepCtx(ctx, e.pace)
		}
	}

	e.completeExecution(executionID, started, logger)
}

// runTask invokes the executor, retrying transient failures per the
// definition's policy with capped exponential backoff. Returns the outputs,
// the number of retries consumed and the last error if all attempts failed.
func (e *Engine) runTask(ctx context.Context, policy workflow.RetryPolicy, task *workflow.Task, logger *slog.Logger) (map[string]any, int, error) {
	var lastErr error
	for attempt := 0; ; attempt++ {
		outputs, err := e.exec.Execute(ctx, task)
		if err == nil {
			return outputs, attempt, nil
		}
		lastErr = err

		var execErr *executor.Error
		transient := errors.As(err, &execErr) && execErr.Transient
		if !transient || attempt >= policy.MaxRetries {
			return nil, attempt, lastErr
		}

		delay := policy.Delay(attempt)
		logger.Warn("task failed, retrying",
			"task_id", task.ID,
			"attempt", attempt+1,
			"max_retries", policy.MaxRetries,
			"delay", delay,
			"error", err,
		)
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, attempt, lastErr
		}
	}
}

// markTaskRunning creates the task's state record lazily on first start.
func (e *Engine) markTaskRunning(executionID, taskID string) {
	now := time.Now()
	_ = e.executions.Update(executionID, func(x *workflow.Execution) error {
		x.TaskStates[taskID] = &workflow.TaskState{
			TaskID:    taskID,
			Status:    workflow.StatusRunning,
			StartedAt: &now,
		}
		return nil
	})
}

// recordTaskFailure marks the failing task and moves the execution to
// Failed. The first failure short-circuits the remaining task order. The
// task's own record is committed even when a concurrent cancel has already
// decided the execution's final status.
func (e *Engine) recordTaskFailure(executionID string, started time.Time, task *workflow.Task, retries int, finished time.Time, taskErr error, logger *slog.Logger) {
	_ = e.executions.Update(executionID, func(x *workflow.Execution) error {
		ts := x.TaskStates[task.ID]
		ts.Status = workflow.StatusFailed
		ts.CompletedAt = &finished
		ts.RetryCount = retries
		ts.ErrorMsg = taskErr.Error()
		return nil
	})

	err := e.executions.Update(executionID, func(x *workflow.Execution) error {
		if x.Status == workflow.StatusCancelled {
			return errSuperseded
		}
		x.Status = workflow.StatusFailed
		x.ErrorMsg = taskErr.Error()
		x.CompletedAt = &finished
		return nil
	})
	if errors.Is(err, errSuperseded) {
		logger.Info("execution cancelled during failing task", "task_id", task.ID)
		return
	}

	duration := finished.Sub(started)
	e.stats.RecordCompletion(workflow.StatusFailed, duration)
	if e.metrics != nil {
		e.metrics.ExecutionFinished(workflow.StatusFailed, duration)
	}
	logger.Error("execution failed", "task_id", task.ID, "retries", retries, "error", taskErr)
}

// failExecution marks an execution Failed before any task ran, e.g. on a
// circular dependency.
func (e *Engine) failExecution(executionID string, started time.Time, cause error, logger *slog.Logger) {
	now := time.Now()
	err := e.executions.Update(executionID, func(x *workflow.Execution) error {
		if x.Status == workflow.StatusCancelled {
			return errSuperseded
		}
		x.Status = workflow.StatusFailed
		x.ErrorMsg = cause.Error()
		x.CompletedAt = &now
		return nil
	})
	if errors.Is(err, errSuperseded) {
		return
	}

	duration := now.Sub(started)
	e.stats.RecordCompletion(workflow.StatusFailed, duration)
	if e.metrics != nil {
		e.metrics.ExecutionFinished(workflow.StatusFailed, duration)
	}
	logger.Error("execution failed", "error", cause)
}

// completeExecution marks an execution Completed after every task succeeded.
func (e *Engine) completeExecution(executionID string, started time.Time, logger *slog.Logger) {
	now := time.Now()
	err := e.executions.Update(executionID, func(x *workflow.Execution) error {
		if x.Status == workflow.StatusCancelled {
			return errSuperseded
		}
		x.Status = workflow.StatusCompleted
		x.Progress = 100
		x.CompletedAt = &now
		x.Outputs = map[string]any{
			"status":  "success",
			"message": "all tasks completed successfully",
		}
		return nil
	})
	if errors.Is(err, errSuperseded) {
		logger.Info("execution cancelled at completion")
		return
	}

	duration := now.Sub(started)
	e.stats.RecordCompletion(workflow.StatusCompleted, duration)
	if e.metrics != nil {
		e.metrics.ExecutionFinished(workflow.StatusCompleted, duration)
	}
	logger.Info("execution completed", "duration", duration)
}

// observeCancelled reports whether the execution has been cancelled.
// Checked between tasks only; a running task is never interrupted.
func (e *Engine) observeCancelled(executionID string) bool {
	snapshot, err := e.executions.Get(executionID)
	if err != nil {
		return true
	}
	return snapshot.Status == workflow.StatusCancelled
}

// sleepCtx waits for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
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
