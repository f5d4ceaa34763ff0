// Package audit keeps an append-only trail of mutating operations and admin
// bypasses. Recording is best-effort: a failed write is logged, never
// propagated to the request that triggered it.
package audit

import "time"

// Entry is one audit record. Metadata is free-form context serialized by the
// storage layer; TargetUID is the public id of the affected resource.
type Entry struct {
	ID         int               `json:"-"`
	UID        string            `json:"id"`
	ActorID    int               `json:"-"`
	ActorUID   string            `json:"actor_id"`
	Action     string            `json:"action"` // permission key, e.g. "update:tasks"
	TargetType string            `json:"target_type"`
	TargetUID  string            `json:"target_id"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"created_at"` // UTC
}

// QueryFilter narrows audit queries; zero values are ignored.
type QueryFilter struct {
	ActorID    int
	Action     string
	TargetType string
	Since      time.Time
	Until      time.Time
}
