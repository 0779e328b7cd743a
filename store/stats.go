package store

import (
	"sync"
	"time"

	"github.com/flowd-io/flowd/workflow"
)

// Stats aggregates execution counters for the server. Counters are updated
// atomically under one mutex on every execution completion.
type Stats struct {
	mu sync.Mutex

	startTime            time.Time
	totalWorkflows       uint64
	totalExecutions      uint64
	successfulExecutions uint64
	failedExecutions     uint64
	activeExecutions     uint64
	averageDuration      time.Duration
}

// StatsSnapshot is a point-in-time copy of the aggregate counters.
type StatsSnapshot struct {
	StartTime            time.Time     `json:"start_time"`
	TotalWorkflows       uint64        `json:"total_workflows"`
	TotalExecutions      uint64        `json:"total_executions"`
	SuccessfulExecutions uint64        `json:"successful_executions"`
	FailedExecutions     uint64        `json:"failed_executions"`
	ActiveExecutions     uint64        `json:"active_executions"`
	AverageDuration      time.Duration `json:"average_execution_duration"`
}

// NewStats creates a Stats anchored at the current time.
func NewStats() *Stats {
	return &Stats{startTime: time.Now()}
}

// RecordWorkflowRegistered increments the registered-workflow counter.
func (s *Stats) RecordWorkflowRegistered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalWorkflows++
}

// RecordStarted counts a newly submitted execution as active.
func (s *Stats) RecordStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalExecutions++
	s.activeExecutions++
}

// RecordCompletion records a terminal execution. Completed and Failed fold
// the execution's wall-clock duration into the running average; Cancelled
// only releases the active slot. Each terminal execution must be recorded
// exactly once.
func (s *Stats) RecordCompletion(status workflow.Status, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch status {
	case workflow.StatusCompleted:
		s.foldDuration(duration)
		s.successfulExecutions++
	case workflow.StatusFailed:
		s.foldDuration(duration)
		s.failedExecutions++
	}

	if s.activeExecutions > 0 {
		s.activeExecutions--
	}
}

// RollbackStarted undoes RecordStarted for a submission that could not be
// enqueued.
func (s *Stats) RollbackStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.totalExecutions > 0 {
		s.totalExecutions--
	}
	if s.activeExecutions > 0 {
		s.activeExecutions--
	}
}

// foldDuration maintains the running average over finished executions.
// Caller holds the lock.
func (s *Stats) foldDuration(duration time.Duration) {
	finished := s.successfulExecutions + s.failedExecutions
	if finished == 0 {
		s.averageDuration = duration
		return
	}
	total := time.Duration(finished)*s.averageDuration + duration
	s.averageDuration = total / time.Duration(finished+1)
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StatsSnapshot{
		StartTime:            s.startTime,
		TotalWorkflows:       s.totalWorkflows,
		TotalExecutions:      s.totalExecutions,
		SuccessfulExecutions: s.successfulExecutions,
		FailedExecutions:     s.failedExecutions,
		ActiveExecutions:     s.activeExecutions,
		AverageDuration:      s.averageDuration,
	}
}

// Uptime returns how long the server has been running.
func (s *Stats) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.startTime)
}
