package membership

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
)

var (
	// errors
	ErrNotFound      = errors.New("membership not found")
	ErrAlreadyMember = errors.New("user is already a member of this class")
)

type (
	Repository interface {
		CreateMembership(mb Membership) (Membership, error)
		GetMembershipByID(id int) (Membership, error)
		GetMembershipByUID(uid string) (Membership, error)
		// GetMembership returns the membership row for the (user, class)
		// pair whatever its status; ErrNotFound when no row exists.
		GetMembership(userID, classID int) (Membership, error)
		// GetActiveMembership only consults rows with an active status:
		// pending and removed rows resolve to ErrNotFound.
		GetActiveMembership(userID, classID int) (Membership, error)
		QueryMembershipsByClass(classID int) ([]Membership, error)
		QueryMembershipsByUser(userID int) ([]Membership, error)
		UpdateMembership(mb Membership) (Membership, error)
	}

	Service interface {
		Create(nm NewMembership) (Membership, error)
		GetByID(id int) (Membership, error)
		GetByUID(uid string) (Membership, error)
		QueryByClass(classID int) ([]Membership, error)
		QueryByUser(userID int) ([]Membership, error)
		Update(orig Membership, um UpdateMembership) (Membership, error)
		Activate(mb Membership) (Membership, error)
		// Remove deactivates the membership, immediately revoking the
		// user's access to the class. The row is kept for audit history.
		Remove(mb Membership) (Membership, error)
		// RoleOf resolves the user's role in the class from the unique
		// active membership; RoleNone when none exists.
		RoleOf(userID, classID int) Role
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(nm NewMembership) (Membership, error) {
	if existing, err := svc.repo.GetMembership(nm.UserID, nm.ClassID); err == nil {
		if existing.Status != StatusRemoved {
			return Membership{}, core.NewValidationError(ErrAlreadyMember)
		}
		// re-adding a removed member revives the existing row
		existing.Role = nm.Role
		existing.Status = nm.Status
		if nm.Status == StatusActive {
			now := time.Now().UTC()
			existing.JoinedAt = &now
		}
		existing.UpdatedAt = time.Now().UTC()
		return svc.repo.UpdateMembership(existing)
	} else if !errors.Is(err, ErrNotFound) {
		return Membership{}, err
	}

	now := time.Now().UTC()
	mb := Membership{
		UID:       uuid.NewString(),
		UserID:    nm.UserID,
		ClassID:   nm.ClassID,
		Role:      nm.Role,
		Status:    nm.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if mb.Status == StatusActive {
		mb.JoinedAt = &now
	}
	return svc.repo.CreateMembership(mb)
}

func (svc *service) GetByID(id int) (Membership, error) {
	return svc.repo.GetMembershipByID(id)
}

func (svc *service) GetByUID(uid string) (Membership, error) {
	return svc.repo.GetMembershipByUID(uid)
}

func (svc *service) QueryByClass(classID int) ([]Membership, error) {
	return svc.repo.QueryMembershipsByClass(classID)
}

func (svc *service) QueryByUser(userID int) ([]Membership, error) {
	return svc.repo.QueryMembershipsByUser(userID)
}

func (svc *service) Update(orig Membership, um UpdateMembership) (Membership, error) {
	mb := orig
	if um.Role != "" {
		mb.Role = um.Role
	}
	if um.Status != "" {
		if um.Status == StatusActive && !orig.IsActive() {
			now := time.Now().UTC()
			mb.JoinedAt = &now
		}
		mb.Status = um.Status
	}
	mb.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMembership(mb)
}

func (svc *service) Activate(mb Membership) (Membership, error) {
	return svc.Update(mb, UpdateMembership{Status: StatusActive})
}

func (svc *service) Remove(mb Membership) (Membership, error) {
	return svc.Update(mb, UpdateMembership{Status: StatusRemoved})
}

func (svc *service) RoleOf(userID, classID int) Role {
	mb, err := svc.repo.GetActiveMembership(userID, classID)
	if err != nil {
		return RoleNone
	}
	return mb.Role
}
