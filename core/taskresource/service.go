package taskresource

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("task resource not found")
)

type (
	Repository interface {
		CreateTaskResource(tr TaskResource) (TaskResource, error)
		GetTaskResourceByID(id int) (TaskResource, error)
		GetTaskResourceByUID(uid string) (TaskResource, error)
		QueryTaskResourcesByTask(taskID int) ([]TaskResource, error)
		UpdateTaskResource(tr TaskResource) (TaskResource, error)
		DeleteTaskResourcesByID(ids ...int) error
	}

	Service interface {
		Create(taskID, createdBy int, nr NewTaskResource) (TaskResource, error)
		GetByID(id int) (TaskResource, error)
		GetByUID(uid string) (TaskResource, error)
		QueryByTask(taskID int) ([]TaskResource, error)
		Update(orig TaskResource, ur UpdateTaskResource) (TaskResource, error)
		Delete(ids ...int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(taskID, createdBy int, nr NewTaskResource) (TaskResource, error) {
	now := time.Now().UTC()
	tr := TaskResource{
		UID:       uuid.NewString(),
		TaskID:    taskID,
		Name:      nr.Name,
		URL:       nr.URL,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTaskResource(tr)
}

func (svc *service) GetByID(id int) (TaskResource, error) {
	return svc.repo.GetTaskResourceByID(id)
}

func (svc *service) GetByUID(uid string) (TaskResource, error) {
	return svc.repo.GetTaskResourceByUID(uid)
}

func (svc *service) QueryByTask(taskID int) ([]TaskResource, error) {
	return svc.repo.QueryTaskResourcesByTask(taskID)
}

func (svc *service) Update(orig TaskResource, ur UpdateTaskResource) (TaskResource, error) {
	tr := orig
	if ur.Name != "" {
		tr.Name = ur.Name
	}
	if ur.URL != "" {
		tr.URL = ur.URL
	}
	tr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTaskResource(tr)
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteTaskResourcesByID(ids...)
}
