package correction

import (
	"time"

	"github.com/trezcool/kosoa/core"
)

// Status is a Correction's workflow status; completed is terminal.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed" // terminal
)

// Correction is a teacher's review of a submission. A submission has at
// most one correction, owned by exactly one teacher (the corrector).
type Correction struct {
	ID           int        `json:"-"`
	UID          string     `json:"id"` // public logical ID
	SubmissionID int        `json:"-"`
	TeacherID    int        `json:"-"` // correcting teacher's user ID
	Status       Status     `json:"status"`
	Grade        *float64   `json:"grade,omitempty"`
	Feedback     string     `json:"feedback"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"` // UTC
	UpdatedAt    time.Time  `json:"updated_at"` // UTC
}

func (c Correction) IsCompleted() bool { return c.Status == StatusCompleted }

// NewCorrection contains information needed to start a new Correction.
type NewCorrection struct {
	Grade    *float64 `json:"grade" validate:"omitempty,min=0"`
	Feedback string   `json:"feedback"`
}

func (nc *NewCorrection) Validate() error {
	nc.Feedback = core.CleanString(nc.Feedback)
	return core.Validate.Struct(nc)
}

// UpdateCorrection defines what may be modified on an existing Correction.
// Status changes go through Service.UpdateStatus, never through here.
type UpdateCorrection struct {
	Grade    *float64 `json:"grade" validate:"omitempty,min=0"`
	Feedback string   `json:"feedback"`
}

func (uc *UpdateCorrection) Validate() error {
	uc.Feedback = core.CleanString(uc.Feedback)
	return core.Validate.Struct(uc)
}
