package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
)

var (
	// errors
	ErrNotFound = errors.New("audit entry not found")
)

type (
	Repository interface {
		CreateEntry(e Entry) (Entry, error)
		GetEntryByUID(uid string) (Entry, error)
		FilterEntries(filter QueryFilter) ([]Entry, error)
		DeleteEntriesBefore(cutoff time.Time) (int, error)
	}

	Service interface {
		// Record appends an entry. It never returns an error: the trail must
		// not break the operation it describes, so failures are only logged.
		Record(e Entry)
		GetByUID(uid string) (Entry, error)
		Filter(filter QueryFilter) ([]Entry, error)
		// Purge drops entries older than cutoff and reports how many went.
		Purge(cutoff time.Time) (int, error)
	}

	service struct {
		repo Repository
		log  core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, log core.Logger) Service {
	return &service{repo: repo, log: log}
}

func (svc *service) Record(e Entry) {
	e.UID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := svc.repo.CreateEntry(e); err != nil {
		svc.log.Error("failed to record audit entry", errors.Wrapf(err, "action %s on %s %s", e.Action, e.TargetType, e.TargetUID))
	}
}

func (svc *service) GetByUID(uid string) (Entry, error) {
	return svc.repo.GetEntryByUID(uid)
}

func (svc *service) Filter(filter QueryFilter) ([]Entry, error) {
	return svc.repo.FilterEntries(filter)
}

func (svc *service) Purge(cutoff time.Time) (int, error) {
	return svc.repo.DeleteEntriesBefore(cutoff)
}
