package store

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowd-io/flowd/workflow"
)

func TestExecutionStore_CreateAndGet(t *testing.T) {
	s := NewExecutionStore()

	e := workflow.NewExecution("wf-1", map[string]any{"key": "value"})
	require.NoError(t, s.Create(e))

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	assert.Equal(t, workflow.StatusPending, got.Status)
	assert.Equal(t, "value", got.Inputs["key"])
}

func TestExecutionStore_CreateDuplicate(t *testing.T) {
	s := NewExecutionStore()

	e := workflow.NewExecution("wf-1", nil)
	require.NoError(t, s.Create(e))

	err := s.Create(e)
	assert.ErrorIs(t, err, ErrExecutionExists)
}

func TestExecutionStore_GetUnknown(t *testing.T) {
	s := NewExecutionStore()

	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrExecutionNotFound)
}

func TestExecutionStore_GetReturnsSnapshot(t *testing.T) {
	s := NewExecutionStore()

	e := workflow.NewExecution("wf-1", nil)
	require.NoError(t, s.Create(e))

	// Mutating a snapshot must not affect the stored record.
	snap, err := s.Get(e.ID)
	require.NoError(t, err)
	snap.Status = workflow.StatusFailed
	snap.TaskStates["t1"] = &workflow.TaskState{TaskID: "t1"}

	fresh, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, fresh.Status)
	assert.Empty(t, fresh.TaskStates)
}

func TestExecutionStore_Update(t *testing.T) {
	s := NewExecutionStore()

	e := workflow.NewExecution("wf-1", nil)
	require.NoError(t, s.Create(e))

	err := s.Update(e.ID, func(x *workflow.Execution) error {
		x.Status = workflow.StatusRunning
		return nil
	})
	require.NoError(t, err)

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRunning, got.Status)
}

func TestExecutionStore_UpdateErrorLeavesRecordUnchanged(t *testing.T) {
	s := NewExecutionStore()

	e := workflow.NewExecution("wf-1", nil)
	require.NoError(t, s.Create(e))

	boom := errors.New("invalid transition")
	err := s.Update(e.ID, func(x *workflow.Execution) error {
		x.Status = workflow.StatusFailed
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPending, got.Status)
}

func TestExecutionStore_UpdateUnknown(t *testing.T) {
	s := NewExecutionStore()

	err := s.Update("nope", func(*workflow.Execution) error { return nil })
	assert.ErrorIs(t, err, ErrExecutionNotFound)
}

func TestExecutionStore_ConcurrentAccess(t *testing.T) {
	s := NewExecutionStore()

	e := workflow.NewExecution("wf-1", nil)
	require.NoError(t, s.Create(e))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Update(e.ID, func(x *workflow.Execution) error {
				x.Progress++
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_, _ = s.Get(e.ID)
		}()
	}
	wg.Wait()

	got, err := s.Get(e.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Progress)
}

func TestExecutionStore_CountByStatus(t *testing.T) {
	s := NewExecutionStore()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Create(workflow.NewExecution("wf-1", nil)))
	}
	running := workflow.NewExecution("wf-1", nil)
	require.NoError(t, s.Create(running))
	require.NoError(t, s.Update(running.ID, func(x *workflow.Execution) error {
		x.Status = workflow.StatusRunning
		return nil
	}))

	assert.Equal(t, 3, s.CountByStatus(workflow.StatusPending))
	assert.Equal(t, 1, s.CountByStatus(workflow.StatusRunning))
	assert.Equal(t, 4, s.Len())
}

func TestCatalog_RegisterAndGet(t *testing.T) {
	c := NewCatalog()

	def := &workflow.Definition{ID: "wf-1", Name: "Test", CreatedAt: time.Now()}
	require.NoError(t, c.Register(def))

	got, err := c.Get("wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Name)

	assert.ErrorIs(t, c.Register(def), ErrWorkflowExists)

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestCatalog_ListOrder(t *testing.T) {
	c := NewCatalog()

	require.NoError(t, c.Register(&workflow.Definition{ID: "b"}))
	require.NoError(t, c.Register(&workflow.Definition{ID: "a"}))
	require.NoError(t, c.Register(&workflow.Definition{ID: "c"}))

	defs := c.List()
	require.Len(t, defs, 3)
	assert.Equal(t, "b", defs[0].ID)
	assert.Equal(t, "a", defs[1].ID)
	assert.Equal(t, "c", defs[2].ID)
	assert.Equal(t, 3, c.Len())
}

func TestStats_Lifecycle(t *testing.T) {
	s := NewStats()

	s.RecordWorkflowRegistered()
	s.RecordWorkflowRegistered()

	s.RecordStarted()
	s.RecordStarted()
	s.RecordStarted()

	snap := s.Snapshot()
	assert.EqualValues(t, 2, snap.TotalWorkflows)
	assert.EqualValues(t, 3, snap.TotalExecutions)
	assert.EqualValues(t, 3, snap.ActiveExecutions)

	s.RecordCompletion(workflow.StatusCompleted, 100*time.Millisecond)
	s.RecordCompletion(workflow.StatusFailed, 300*time.Millisecond)
	s.RecordCompletion(workflow.StatusCancelled, 0)

	snap = s.Snapshot()
	assert.EqualValues(t, 1, snap.SuccessfulExecutions)
	assert.EqualValues(t, 1, snap.FailedExecutions)
	assert.EqualValues(t, 0, snap.ActiveExecutions)
	assert.Equal(t, 200*time.Millisecond, snap.AverageDuration)
}

func TestStats_AverageFirstCompletion(t *testing.T) {
	// No division-by-zero when folding the first duration.
	s := NewStats()
	s.RecordStarted()
	s.RecordCompletion(workflow.StatusCompleted, 250*time.Millisecond)

	assert.Equal(t, 250*time.Millisecond, s.Snapshot().AverageDuration)
}

func TestStats_ActiveNeverNegative(t *testing.T) {
	s := NewStats()
	s.RecordCompletion(workflow.StatusCancelled, 0)
	assert.EqualValues(t, 0, s.Snapshot().ActiveExecutions)
}

func TestStats_RollbackStarted(t *testing.T) {
	s := NewStats()
	s.RecordStarted()
	s.RollbackStarted()

	snap := s.Snapshot()
	assert.EqualValues(t, 0, snap.TotalExecutions)
	assert.EqualValues(t, 0, snap.ActiveExecutions)
}
