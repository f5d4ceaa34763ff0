package class

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("class not found")
)

type (
	Repository interface {
		CreateClass(cls Class) (Class, error)
		QueryAllClasses() ([]Class, error)
		GetClassByID(id int) (Class, error)
		GetClassByUID(uid string) (Class, error)
		QueryClassesByIDs(ids ...int) ([]Class, error)
		UpdateClass(cls Class) (Class, error)
		DeleteClassesByID(ids ...int) error
	}

	Service interface {
		Create(actor user.User, nc NewClass) (Class, error)
		QueryAll() ([]Class, error)
		QueryForMember(userID int) ([]Class, error)
		GetByID(id int) (Class, error)
		GetByUID(uid string) (Class, error)
		Update(orig Class, uc UpdateClass) (Class, error)
		Delete(ids ...int) error
	}

	service struct {
		repo          Repository
		membershipSvc membership.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, membershipSvc membership.Service) Service {
	return &service{repo: repo, membershipSvc: membershipSvc}
}

// Create creates a new Class and grants its creator an active teacher membership.
func (svc *service) Create(actor user.User, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	cls := Class{
		UID:         uuid.NewString(),
		Name:        nc.Name,
		Description: nc.Description,
		Level:       nc.Level,
		Subject:     nc.Subject,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	cls, err := svc.repo.CreateClass(cls)
	if err != nil {
		return Class{}, err
	}
	_, err = svc.membershipSvc.Create(membership.NewMembership{
		UserID:  actor.ID,
		ClassID: cls.ID,
		Role:    membership.RoleTeacher,
		Status:  membership.StatusActive,
	})
	if err != nil {
		return Class{}, errors.Wrap(err, "creating teacher membership")
	}
	return cls, nil
}

func (svc *service) QueryAll() ([]Class, error) {
	return svc.repo.QueryAllClasses()
}

// QueryForMember returns the classes in which the user holds an active membership.
func (svc *service) QueryForMember(userID int) ([]Class, error) {
	mbs, err := svc.membershipSvc.QueryByUser(userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(mbs))
	for _, mb := range mbs {
		if mb.Status == membership.StatusActive {
			ids = append(ids, mb.ClassID)
		}
	}
	if len(ids) == 0 {
		return []Class{}, nil
	}
	return svc.repo.QueryClassesByIDs(ids...)
}

func (svc *service) GetByID(id int) (Class, error) {
	return svc.repo.GetClassByID(id)
}

func (svc *service) GetByUID(uid string) (Class, error) {
	return svc.repo.GetClassByUID(uid)
}

func (svc *service) Update(orig Class, uc UpdateClass) (Class, error) {
	cls := orig
	cls.Name = uc.Name
	cls.Description = uc.Description
	cls.Level = uc.Level
	cls.Subject = uc.Subject
	cls.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(cls)
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteClassesByID(ids...)
}
