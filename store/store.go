// Package store holds the engine's shared mutable state: the execution
// state store, the workflow catalog and the aggregate statistics.
//
// These are the only structures shared between the engine's execution
// goroutines and concurrent status queries. All access goes through their
// narrow contracts, so readers never observe a torn write; each update is
// atomic with respect to a single record.
package store

import (
	"errors"
	"sync"

	"github.com/flowd-io/flowd/workflow"
)

var (
	// ErrExecutionNotFound is returned when no execution has the given ID.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrExecutionExists is returned when creating an execution whose ID is
	// already present.
	ErrExecutionExists = errors.New("execution already exists")
)

// ExecutionStore is an in-memory map of execution ID to execution record.
// Reads return deep copies; mutations go through Update, which applies the
// mutator under the store's lock. Each Update call is O(1) bookkeeping, not
// task execution, so readers never block writers for long.
type ExecutionStore struct {
	mu         sync.RWMutex
	executions map[string]*workflow.Execution
}

// NewExecutionStore creates an empty execution store.
func NewExecutionStore() *ExecutionStore {
	return &ExecutionStore{
		executions: make(map[string]*workflow.Execution),
	}
}

// Create inserts a new execution record.
func (s *ExecutionStore) Create(e *workflow.Execution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.executions[e.ID]; exists {
		return ErrExecutionExists
	}
	s.executions[e.ID] = e.Clone()
	return nil
}

// Get returns a snapshot of the execution with the given ID. The snapshot is
// a deep copy and safe to retain.
func (s *ExecutionStore) Get(id string) (*workflow.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.executions[id]
	if !exists {
		return nil, ErrExecutionNotFound
	}
	return e.Clone(), nil
}

// Update applies a state transition to the execution with the given ID. The
// mutator runs under the store's exclusive lock; if it returns an error the
// record is left unchanged.
func (s *ExecutionStore) Update(id string, mutate func(*workflow.Execution) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.executions[id]
	if !exists {
		return ErrExecutionNotFound
	}

	updated := e.Clone()
	if err := mutate(updated); err != nil {
		return err
	}
	s.executions[id] = updated
	return nil
}

// Delete removes an execution record. Used to roll back a submission whose
// start command could not be enqueued.
func (s *ExecutionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.executions, id)
}

// CountByStatus returns the number of executions currently in the given
// status.
func (s *ExecutionStore) CountByStatus(status workflow.Status) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, e := range s.executions {
		if e.Status == status {
			n++
		}
	}
	return n
}

// Len returns the total number of execution records.
func (s *ExecutionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.executions)
}
