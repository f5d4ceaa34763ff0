package class

import (
	"time"

	"github.com/trezcool/kosoa/core"
)

// Class is the root of the ownership graph: every task, submission,
// correction and annotation ultimately belongs to exactly one Class.
type Class struct {
	ID          int       `json:"-"`
	UID         string    `json:"id"` // public logical ID
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	Subject     string    `json:"subject"`
	CreatedBy   int       `json:"-"` // creating teacher's user ID; never reassigned
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Subject     string `json:"subject"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.Description = core.CleanString(nc.Description)
	nc.Level = core.CleanString(nc.Level)
	nc.Subject = core.CleanString(nc.Subject)
	return core.Validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Subject     string `json:"subject"`
}

func (uc *UpdateClass) Validate(orig Class) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = orig.Name
	}
	uc.Description = core.CleanString(uc.Description)
	uc.Level = core.CleanString(uc.Level)
	uc.Subject = core.CleanString(uc.Subject)
	return core.Validate.Struct(uc)
}
