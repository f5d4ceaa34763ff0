package submission

import (
	"time"

	"github.com/trezcool/kosoa/core"
)

// Status is a Submission's workflow status. Once archived, no further
// transitions are possible.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusCorrected Status = "corrected"
	StatusArchived  Status = "archived" // terminal
)

// AllowsStudentEdit reports whether the owning student may still modify the
// submission. Once handed in, only the correcting teacher touches it.
func (s Status) AllowsStudentEdit() bool {
	return s == StatusDraft
}

// Submission is a student's work handed in for a task. It belongs to
// exactly one Task and is owned by exactly one student.
type Submission struct {
	ID          int        `json:"-"`
	UID         string     `json:"id"` // public logical ID
	TaskID      int        `json:"-"`
	StudentID   int        `json:"-"` // owning student's user ID
	Status      Status     `json:"status"`
	PageURLs    []string   `json:"page_urls"`      // raw (unprocessed) pages
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"` // UTC
	UpdatedAt   time.Time  `json:"updated_at"` // UTC
}

// NewSubmission contains information needed to create a new Submission.
type NewSubmission struct {
	PageURLs []string `json:"page_urls" validate:"omitempty,dive,url"`
}

func (ns *NewSubmission) Validate() error {
	return core.Validate.Struct(ns)
}

// UpdateSubmission defines what may be modified on an existing Submission.
// Status changes go through Service.UpdateStatus, never through here.
type UpdateSubmission struct {
	PageURLs []string `json:"page_urls" validate:"omitempty,dive,url"`
}

func (us *UpdateSubmission) Validate() error {
	return core.Validate.Struct(us)
}
