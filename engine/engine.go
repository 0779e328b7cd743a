// Package engine drives workflow executions.
//
// The engine is a long-lived actor: callers submit start and cancel commands
// over a channel, each carrying a reply channel, and the actor loop
// dispatches them. Every execution is processed by exactly one goroutine;
// independent executions run in parallel, but no two goroutines ever drive
// the same execution ID. Tasks within one execution run strictly in the
// order produced by the resolver.
//
// Submitting a workflow is fire-and-forget: ExecuteWorkflow returns as soon
// as the execution record exists and the start command is accepted. Callers
// poll progress through Status or request cancellation through Cancel.
// Cancellation is cooperative and takes effect at the next task boundary; an
// in-flight task is never interrupted mid-call.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flowd-io/flowd/executor"
	"github.com/flowd-io/flowd/metrics"
	"github.com/flowd-io/flowd/store"
	"github.com/flowd-io/flowd/workflow"
)

var (
	// ErrInvalidState is returned when a command is not valid for the
	// execution's current status, e.g. cancelling a terminal execution.
	ErrInvalidState = errors.New("invalid execution state")

	// ErrEngineClosed is returned for submissions after the engine has shut
	// down. Not recoverable without a restart.
	ErrEngineClosed = errors.New("engine closed")

	// ErrQueueFull is returned when the command queue cannot accept another
	// command.
	ErrQueueFull = errors.New("command queue full")

	// errSuperseded signals that a concurrent cancel won the race for the
	// final state transition.
	errSuperseded = errors.New("execution already terminal")
)

const (
	defaultQueueSize = 128
	defaultPace      = 100 * time.Millisecond
)

type commandKind int

const (
	cmdStart commandKind = iota
	cmdCancel
)

// command is one message on the engine's channel. reply is a one-shot
// channel the actor answers on.
type command struct {
	kind        commandKind
	executionID string
	reply       chan error
}

// Engine owns the execution lifecycle. All shared state lives in the store
// types; the engine itself only tracks which execution IDs are in flight.
type Engine struct {
	logger     *slog.Logger
	catalog    *store.Catalog
	executions *store.ExecutionStore
	stats      *store.Stats
	exec       executor.Executor
	metrics    *metrics.Metrics

	commands chan command
	pace     time.Duration

	mu       sync.Mutex
	closed   bool
	inflight map[string]struct{}
	wg       sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger.With("component", "engine")
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithPace sets the delay inserted between consecutive tasks of one
// execution.
func WithPace(d time.Duration) Option {
	return func(e *Engine) {
		e.pace = d
	}
}

// WithQueueSize sets the command queue capacity.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		e.commands = make(chan command, n)
	}
}

// New creates an Engine over the given catalog, execution store, stats and
// task executor. Call Run to start the actor loop.
func New(catalog *store.Catalog, executions *store.ExecutionStore, stats *store.Stats, exec executor.Executor, opts ...Option) *Engine {
	e := &Engine{
		logger:     slog.Default().With("component", "engine"),
		catalog:    catalog,
		executions: executions,
		stats:      stats,
		exec:       exec,
		commands:   make(chan command, defaultQueueSize),
		pace:       defaultPace,
		inflight:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run is the actor loop. It blocks until ctx is cancelled, then rejects new
// submissions, drops pending commands and waits for in-flight executions to
// reach a task boundary or finish.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine started", "workflows", e.catalog.Len())

	defer func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()

		// Answer queued commands so their callers unblock.
		for {
			select {
			case cmd := <-e.commands:
				cmd.reply <- ErrEngineClosed
			default:
				e.wg.Wait()
				e.logger.Info("engine stopped")
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case cmd := <-e.commands:
			switch cmd.kind {
			case cmdStart:
				e.handleStart(ctx, cmd)
			case cmdCancel:
				cmd.reply <- e.cancelExecution(cmd.executionID)
			}
		}
	}
}

// handleStart launches the goroutine that drives one execution. The inflight
// map guarantees a given execution ID is never processed twice concurrently.
func (e *Engine) handleStart(ctx context.Context, cmd command) {
	e.mu.Lock()
	if _, busy := e.inflight[cmd.executionID]; busy {
		e.mu.Unlock()
		cmd.reply <- fmt.Errorf("%w: execution %s already in flight", ErrInvalidState, cmd.executionID)
		return
	}
	e.inflight[cmd.executionID] = struct{}{}
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			delete(e.inflight, cmd.executionID)
			e.mu.Unlock()
		}()
		e.runExecution(ctx, cmd.executionID)
	}()

	cmd.reply <- nil
}

// ExecuteWorkflow creates a Pending execution for the given workflow,
// enqueues its start command and returns the initial snapshot. It does not
// wait for the workflow to finish.
func (e *Engine) ExecuteWorkflow(workflowID string, inputs map[string]any) (*workflow.Execution, error) {
	if _, err := e.catalog.Get(workflowID); err != nil {
		return nil, err
	}

	exec := workflow.NewExecution(workflowID, inputs)
	if err := e.executions.Create(exec); err != nil {
		return nil, err
	}
	e.stats.RecordStarted()

	if err := e.enqueue(command{kind: cmdStart, executionID: exec.ID, reply: make(chan error, 1)}); err != nil {
		e.executions.Delete(exec.ID)
		e.stats.RollbackStarted()
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.ExecutionStarted()
	}
	e.logger.Info("execution submitted", "execution_id", exec.ID, "workflow_id", workflowID)

	// The store holds its own clone, so exec is still the Pending snapshot
	// from before the start command was enqueued.
	return exec, nil
}

// Status returns a snapshot of the execution with the given ID.
func (e *Engine) Status(executionID string) (*workflow.Execution, error) {
	return e.executions.Get(executionID)
}

// Cancel requests cancellation of a pending or running execution and waits
// for the actor to acknowledge. Terminal executions fail with
// ErrInvalidState; unknown IDs with store.ErrExecutionNotFound.
func (e *Engine) Cancel(executionID string) error {
	if _, err := e.executions.Get(executionID); err != nil {
		return err
	}

	cmd := command{kind: cmdCancel, executionID: executionID, reply: make(chan error, 1)}
	if err := e.enqueue(cmd); err != nil {
		return err
	}
	return <-cmd.reply
}

// Register adds a workflow definition to the catalog.
func (e *Engine) Register(def *workflow.Definition) error {
	if err := e.catalog.Register(def); err != nil {
		return err
	}
	e.stats.RecordWorkflowRegistered()
	e.logger.Info("workflow registered", "workflow_id", def.ID, "name", def.Name)
	return nil
}

// Definition returns the workflow definition with the given ID.
func (e *Engine) Definition(workflowID string) (*workflow.Definition, error) {
	return e.catalog.Get(workflowID)
}

// WorkflowSummary is one row of the workflow listing.
type WorkflowSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TaskCount   int       `json:"task_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListWorkflows returns a summary of every registered definition in
// registration order.
func (e *Engine) ListWorkflows() []WorkflowSummary {
	defs := e.catalog.List()
	summaries := make([]WorkflowSummary, 0, len(defs))
	for _, def := range defs {
		summaries = append(summaries, WorkflowSummary{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			TaskCount:   len(def.Tasks),
			CreatedAt:   def.CreatedAt,
		})
	}
	return summaries
}

// ServerStatus is the consolidated health and statistics report.
type ServerStatus struct {
	UptimeSeconds     int64               `json:"uptime_seconds"`
	Stats             store.StatsSnapshot `json:"statistics"`
	WorkflowCount     int                 `json:"workflow_count"`
	ActiveExecutions  int                 `json:"active_execution_count"`
	PendingExecutions int                 `json:"pending_execution_count"`
	Capabilities      []string            `json:"capabilities"`
}

// ServerStatus reports uptime, aggregate counters, current execution counts
// and the supported task kinds.
func (e *Engine) ServerStatus() ServerStatus {
	caps := make([]string, 0, len(workflow.Kinds())+2)
	for _, kind := range workflow.Kinds() {
		caps = append(caps, string(kind))
	}
	caps = append(caps, "dependency_resolution", "retry_policies")

	return ServerStatus{
		UptimeSeconds:     int64(e.stats.Uptime().Seconds()),
		Stats:             e.stats.Snapshot(),
		WorkflowCount:     e.catalog.Len(),
		ActiveExecutions:  e.executions.CountByStatus(workflow.StatusRunning),
		PendingExecutions: e.executions.CountByStatus(workflow.StatusPending),
		Capabilities:      caps,
	}
}

// enqueue places a command on the channel without blocking. The mutex is
// held across the send so that every buffered command is either dispatched
// by the actor loop or answered by its shutdown drain.
func (e *Engine) enqueue(cmd command) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrEngineClosed
	}

	select {
	case e.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// cancelExecution applies the Cancelled transition. The store serializes
// this against the execution's worker, so exactly one of them performs the
// terminal transition and records the completion.
func (e *Engine) cancelExecution(executionID string) error {
	now := time.Now()
	err := e.executions.Update(executionID, func(x *workflow.Execution) error {
		if x.Status.Terminal() {
			return fmt.Errorf("%w: execution %s is %s", ErrInvalidState, executionID, x.Status)
		}
		x.Status = workflow.StatusCancelled
		x.CompletedAt = &now
		return nil
	})
	if err != nil {
		return err
	}

	e.stats.RecordCompletion(workflow.StatusCancelled, 0)
	if e.metrics != nil {
		e.metrics.ExecutionFinished(workflow.StatusCancelled, 0)
	}
	e.logger.Info("execution cancelled", "execution_id", executionID)
	return nil
}
