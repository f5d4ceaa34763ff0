package inmemdb

import (
	"sort"

	"github.com/trezcool/kosoa/core/membership"
)

type membershipRepository struct {
	db *table[membership.Membership]
}

var _ membership.Repository = (*membershipRepository)(nil)

func NewMembershipRepository(db *DB) membership.Repository {
	return &membershipRepository{db: db.membership}
}

func (repo *membershipRepository) CreateMembership(mb membership.Membership) (membership.Membership, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	mb.ID = repo.db.nextPK()
	repo.db.rows[mb.ID] = &mb
	return mb, nil
}

func (repo *membershipRepository) GetMembershipByID(id int) (membership.Membership, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if mb, ok := repo.db.rows[id]; ok {
		return *mb, nil
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (repo *membershipRepository) GetMembershipByUID(uid string) (membership.Membership, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, mb := range repo.db.rows {
		if mb.UID == uid {
			return *mb, nil
		}
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (repo *membershipRepository) GetMembership(userID, classID int) (membership.Membership, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, mb := range repo.db.rows {
		if mb.UserID == userID && mb.ClassID == classID {
			return *mb, nil
		}
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (repo *membershipRepository) GetActiveMembership(userID, classID int) (membership.Membership, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, mb := range repo.db.rows {
		if mb.UserID == userID && mb.ClassID == classID && mb.IsActive() {
			return *mb, nil
		}
	}
	return membership.Membership{}, membership.ErrNotFound
}

func (repo *membershipRepository) queryWhere(match func(membership.Membership) bool) []membership.Membership {
	var mbs []membership.Membership
	for _, mb := range repo.db.rows {
		if match(*mb) {
			mbs = append(mbs, *mb)
		}
	}
	sort.Slice(mbs, func(i, j int) bool { return mbs[i].ID < mbs[j].ID })
	return mbs
}

func (repo *membershipRepository) QueryMembershipsByClass(classID int) ([]membership.Membership, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryWhere(func(mb membership.Membership) bool { return mb.ClassID == classID }), nil
}

func (repo *membershipRepository) QueryMembershipsByUser(userID int) ([]membership.Membership, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryWhere(func(mb membership.Membership) bool { return mb.UserID == userID }), nil
}

func (repo *membershipRepository) UpdateMembership(mb membership.Membership) (membership.Membership, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[mb.ID]; !ok {
		return membership.Membership{}, membership.ErrNotFound
	}
	repo.db.rows[mb.ID] = &mb
	return mb, nil
}
