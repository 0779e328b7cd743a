// Package cron provides cron-based scheduling for submitting workflow
// executions.
//
// A Trigger wraps a Submitter and submits a fixed workflow according to a
// cron schedule. It is designed to be started once and run until the
// context is cancelled.
//
// Example usage:
//
//	trigger, err := cron.NewTrigger("0 6 * * *", "analytics-report", nil, eng, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trigger.Start(ctx)  // Returns immediately, runs in background
//	<-ctx.Done()        // Wait for shutdown signal
package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/flowd-io/flowd/workflow"
)

// ErrInvalidCronSpec is returned when the cron specification cannot be parsed.
var ErrInvalidCronSpec = errors.New("invalid cron spec")

// Submitter is implemented by anything that can start workflow executions.
type Submitter interface {
	ExecuteWorkflow(workflowID string, inputs map[string]any) (*workflow.Execution, error)
}

// Trigger submits a workflow according to a cron schedule.
type Trigger struct {
	spec       string
	schedule   cron.Schedule
	workflowID string
	inputs     map[string]any
	submitter  Submitter
	logger     *slog.Logger
}

// NewTrigger creates a new Trigger with the given cron specification.
// The spec follows standard cron format (5 fields: minute, hour, day, month, weekday).
// Returns ErrInvalidCronSpec if the specification cannot be parsed.
func NewTrigger(spec, workflowID string, inputs map[string]any, submitter Submitter, logger *slog.Logger) (*Trigger, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidCronSpec, err)
	}

	return &Trigger{
		spec:       spec,
		schedule:   schedule,
		workflowID: workflowID,
		inputs:     inputs,
		submitter:  submitter,
		logger:     logger,
	}, nil
}

// Start launches a goroutine that submits the workflow according to the cron
// schedule. Returns immediately. The goroutine exits when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	go t.loop(ctx)
}

// NextRun returns the next scheduled submission time from now.
func (t *Trigger) NextRun() time.Time {
	return t.schedule.Next(time.Now())
}

// loop is the main scheduling loop that runs in a goroutine.
func (t *Trigger) loop(ctx context.Context) {
	for {
		nextRun := t.schedule.Next(time.Now())
		waitDuration := time.Until(nextRun)

		t.logger.Debug("waiting for next scheduled submission",
			"workflow_id", t.workflowID,
			"next_run", nextRun,
			"wait_duration", waitDuration,
		)

		select {
		case <-ctx.Done():
			t.logger.Info("cron trigger shutting down", "workflow_id", t.workflowID)
			return
		case <-time.After(waitDuration):
			t.submit()
		}
	}
}

// submit starts one execution and logs the result.
func (t *Trigger) submit() {
	exec, err := t.submitter.ExecuteWorkflow(t.workflowID, t.inputs)
	if err != nil {
		t.logger.Warn("scheduled submission failed",
			"workflow_id", t.workflowID,
			"error", err,
		)
		return
	}

	t.logger.Info("scheduled execution submitted",
		"workflow_id", t.workflowID,
		"execution_id", exec.ID,
	)
}
