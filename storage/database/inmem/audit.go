package inmemdb

import (
	"sort"
	"time"

	"github.com/trezcool/kosoa/core/audit"
)

type auditRepository struct {
	db *table[audit.Entry]
}

var _ audit.Repository = (*auditRepository)(nil)

func NewAuditRepository(db *DB) audit.Repository {
	return &auditRepository{db: db.audit}
}

func (repo *auditRepository) CreateEntry(e audit.Entry) (audit.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e.ID = repo.db.nextPK()
	repo.db.rows[e.ID] = &e
	return e, nil
}

func (repo *auditRepository) GetEntryByUID(uid string) (audit.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, e := range repo.db.rows {
		if e.UID == uid {
			return *e, nil
		}
	}
	return audit.Entry{}, audit.ErrNotFound
}

func (repo *auditRepository) FilterEntries(filter audit.QueryFilter) ([]audit.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var entries []audit.Entry
	for _, e := range repo.db.rows {
		if filter.ActorID != 0 && e.ActorID != filter.ActorID {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.TargetType != "" && e.TargetType != filter.TargetType {
			continue
		}
		if !filter.Since.IsZero() && e.CreatedAt.Before(filter.Since) {
			continue
		}
		if !filter.Until.IsZero() && !e.CreatedAt.Before(filter.Until) {
			continue
		}
		entries = append(entries, *e)
	}
	// newest first
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	return entries, nil
}

func (repo *auditRepository) DeleteEntriesBefore(cutoff time.Time) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int
	for id, e := range repo.db.rows {
		if e.CreatedAt.Before(cutoff) {
			delete(repo.db.rows, id)
			n++
		}
	}
	return n, nil
}
