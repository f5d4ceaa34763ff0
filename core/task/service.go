package task

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("task not found")
)

type (
	Repository interface {
		CreateTask(t Task) (Task, error)
		GetTaskByID(id int) (Task, error)
		GetTaskByUID(uid string) (Task, error)
		QueryTasksByClass(classID int) ([]Task, error)
		UpdateTask(t Task) (Task, error)
		DeleteTasksByID(ids ...int) error
	}

	// TransitionValidator checks a task status change against the workflow
	// transition matrix before it is persisted.
	TransitionValidator interface {
		ValidateTaskStatusTransition(t Task, newStatus Status) error
	}

	Service interface {
		Create(classID, createdBy int, nt NewTask) (Task, error)
		GetByID(id int) (Task, error)
		GetByUID(uid string) (Task, error)
		QueryByClass(classID int) ([]Task, error)
		Update(orig Task, ut UpdateTask) (Task, error)
		// UpdateStatus validates the transition against the status read at
		// the start of the operation; nothing is persisted when it fails.
		UpdateStatus(t Task, newStatus Status) (Task, error)
		Delete(ids ...int) error
	}

	service struct {
		repo        Repository
		transitions TransitionValidator
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, transitions TransitionValidator) Service {
	return &service{repo: repo, transitions: transitions}
}

func (svc *service) Create(classID, createdBy int, nt NewTask) (Task, error) {
	now := time.Now().UTC()
	t := Task{
		UID:         uuid.NewString(),
		ClassID:     classID,
		Title:       nt.Title,
		Description: nt.Description,
		Status:      StatusDraft,
		MaxGrade:    nt.MaxGrade,
		DueDate:     nt.DueDate,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateTask(t)
}

func (svc *service) GetByID(id int) (Task, error) {
	return svc.repo.GetTaskByID(id)
}

func (svc *service) GetByUID(uid string) (Task, error) {
	return svc.repo.GetTaskByUID(uid)
}

func (svc *service) QueryByClass(classID int) ([]Task, error) {
	return svc.repo.QueryTasksByClass(classID)
}

func (svc *service) Update(orig Task, ut UpdateTask) (Task, error) {
	t := orig
	t.Title = ut.Title
	t.Description = ut.Description
	if ut.MaxGrade != nil {
		t.MaxGrade = *ut.MaxGrade
	}
	if ut.DueDate != nil {
		t.DueDate = ut.DueDate
	}
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(t)
}

func (svc *service) UpdateStatus(t Task, newStatus Status) (Task, error) {
	if err := svc.transitions.ValidateTaskStatusTransition(t, newStatus); err != nil {
		return Task{}, err
	}
	t.Status = newStatus
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTask(t)
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteTasksByID(ids...)
}
