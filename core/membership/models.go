package membership

import (
	"time"

	"github.com/trezcool/kosoa/core"
)

// Role is the role a user holds within a class. It is independent of the
// user's global roles: a globally-declared teacher is only "the teacher of
// class C" when an active teacher membership binds them to C.
type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"

	// RoleNone is resolved when no active membership binds the user to the
	// class; an inactive (pending/removed) membership resolves identically.
	RoleNone Role = ""
)

type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusRemoved Status = "removed"
)

// Membership binds a User to a Class with a role and a standing.
// At most one membership exists per (user, class) pair; removal flips the
// status to removed instead of deleting the row, keeping it for audit history.
type Membership struct {
	ID        int        `json:"-"`
	UID       string     `json:"id"` // public logical ID
	UserID    int        `json:"-"`
	ClassID   int        `json:"-"`
	Role      Role       `json:"role"`
	Status    Status     `json:"status"`
	JoinedAt  *time.Time `json:"joined_at,omitempty"` // set when the membership becomes active
	CreatedAt time.Time  `json:"created_at"`          // UTC
	UpdatedAt time.Time  `json:"updated_at"`          // UTC
}

func (m Membership) IsActive() bool { return m.Status == StatusActive }

// NewMembership contains information needed to add a user to a class.
type NewMembership struct {
	UserID  int    `json:"-" validate:"required"`
	ClassID int    `json:"-" validate:"required"`
	Role    Role   `json:"role" validate:"required,oneof=teacher student"`
	Status  Status `json:"-"`
}

func (nm *NewMembership) Validate() error {
	if nm.Status == "" {
		nm.Status = StatusPending
	}
	return core.Validate.Struct(nm)
}

// UpdateMembership defines what may be modified on an existing Membership.
type UpdateMembership struct {
	Role   Role   `json:"role" validate:"omitempty,oneof=teacher student"`
	Status Status `json:"status" validate:"omitempty,oneof=pending active removed"`
}

func (um *UpdateMembership) Validate() error {
	return core.Validate.Struct(um)
}
