package task

import (
	"time"

	"github.com/trezcool/kosoa/core"
)

// Status is a Task's workflow status. Transitions only move forward:
// a published task can never return to draft.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived" // terminal
)

// Task is an assignment created by a teacher within a class.
type Task struct {
	ID          int        `json:"-"`
	UID         string     `json:"id"` // public logical ID
	ClassID     int        `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	MaxGrade    int        `json:"max_grade"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedBy   int        `json:"-"` // creating teacher's user ID
	CreatedAt   time.Time  `json:"created_at"` // UTC
	UpdatedAt   time.Time  `json:"updated_at"` // UTC
}

func (t Task) IsPublished() bool { return t.Status == StatusPublished }

// NewTask contains information needed to create a new Task.
type NewTask struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	MaxGrade    int        `json:"max_grade" validate:"omitempty,min=0"`
	DueDate     *time.Time `json:"due_date"`
}

func (nt *NewTask) Validate() error {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
	return core.Validate.Struct(nt)
}

// UpdateTask defines what may be modified on an existing Task.
// Status changes go through Service.UpdateStatus, never through here.
type UpdateTask struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MaxGrade    *int       `json:"max_grade" validate:"omitempty,min=0"`
	DueDate     *time.Time `json:"due_date"`
}

func (ut *UpdateTask) Validate(orig Task) error {
	if title := core.CleanString(ut.Title); title != "" {
		ut.Title = title
	} else {
		ut.Title = orig.Title
	}
	ut.Description = core.CleanString(ut.Description)
	return core.Validate.Struct(ut)
}
