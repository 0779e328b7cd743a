package workflow

import (
	"errors"
	"fmt"
)

// ErrCircularDependency is returned when a definition's dependency map does
// not describe a DAG. Cycles are detected at resolution time, not at
// registration time, so a bad definition fails its executions rather than
// corrupting the catalog.
var ErrCircularDependency = errors.New("circular dependency detected")

// Resolve linearizes the tasks of a definition into a valid execution order:
// every task appears after all of its declared dependencies.
//
// The algorithm is an iterative Kahn-style resolution: repeatedly scan the
// unresolved set and move any task whose dependencies are all resolved into
// the result. A full pass that makes no progress means the remaining tasks
// participate in a cycle. Scanning in declaration order makes the result
// deterministic for a given definition, so independent tasks always resolve
// in the order they were declared.
//
// Quadratic in the worst case, which is fine for human-authored workflows of
// tens of tasks.
func Resolve(tasks []Task, deps map[string][]string) ([]string, error) {
	resolved := make([]string, 0, len(tasks))
	done := make(map[string]bool, len(tasks))

	unresolved := make([]string, len(tasks))
	for i := range tasks {
		unresolved[i] = tasks[i].ID
	}

	for len(unresolved) > 0 {
		progress := false
		remaining := unresolved[:0]

		for _, taskID := range unresolved {
			if allResolved(deps[taskID], done) {
				resolved = append(resolved, taskID)
				done[taskID] = true
				progress = true
			} else {
				remaining = append(remaining, taskID)
			}
		}

		if !progress {
			return nil, fmt.Errorf("%w: %d task(s) unresolvable", ErrCircularDependency, len(remaining))
		}
		unresolved = remaining
	}

	return resolved, nil
}

func allResolved(deps []string, done map[string]bool) bool {
	for _, dep := range deps {
		if !done[dep] {
			return false
		}
	}
	return true
}
