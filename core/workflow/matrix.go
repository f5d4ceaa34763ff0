// Package workflow owns the status transition rules of every workflow
// entity (tasks, submissions, corrections). Entity services delegate to
// Service before persisting any status field change; this is the single
// choke point for workflow integrity.
package workflow

// Status constrains matrix keys to string-based status types.
type Status interface{ ~string }

// Matrix maps a current status to the set of statuses it may legally
// become. A status mapped to an empty (or absent) set is terminal.
type Matrix[S Status] map[S][]S

// Valid reports whether current may transition to next. Keeping the same
// status is always valid (idempotent no-op update); an unmapped status is
// treated as having no allowed transitions.
func (m Matrix[S]) Valid(current, next S) bool {
	if current == next {
		return true
	}
	for _, allowed := range m[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Allowed returns the statuses reachable from current; empty for a
// terminal or unmapped status.
func (m Matrix[S]) Allowed(current S) []S {
	return m[current]
}
