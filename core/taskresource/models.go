package taskresource

import (
	"time"

	"github.com/trezcool/kosoa/core"
)

// TaskResource is a supporting material attached to a Task (a handout, a
// marking scheme, a reference link). It carries no access fields of its own:
// visibility is inherited from the owning Task.
type TaskResource struct {
	ID        int       `json:"-"`
	UID       string    `json:"id"` // public logical ID
	TaskID    int       `json:"-"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedBy int       `json:"-"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewTaskResource contains information needed to attach a resource to a Task.
type NewTaskResource struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,url"`
}

func (nr *NewTaskResource) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	return core.Validate.Struct(nr)
}

// UpdateTaskResource defines what may be modified on an existing TaskResource.
type UpdateTaskResource struct {
	Name string `json:"name"`
	URL  string `json:"url" validate:"omitempty,url"`
}

func (ur *UpdateTaskResource) Validate() error {
	ur.Name = core.CleanString(ur.Name)
	return core.Validate.Struct(ur)
}
