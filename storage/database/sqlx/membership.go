package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kosoa/core/membership"
)

type membershipRow struct {
	ID        int       `db:"id"`
	UID       string    `db:"uid"`
	UserID    int       `db:"user_id"`
	ClassID   int       `db:"class_id"`
	Role      string    `db:"role"`
	Status    string    `db:"status"`
	JoinedAt  null.Time `db:"joined_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r membershipRow) toMembership() membership.Membership {
	return membership.Membership{
		ID:        r.ID,
		UID:       r.UID,
		UserID:    r.UserID,
		ClassID:   r.ClassID,
		Role:      membership.Role(r.Role),
		Status:    membership.Status(r.Status),
		JoinedAt:  r.JoinedAt.Ptr(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type membershipRepository struct {
	db *sqlx.DB
}

var _ membership.Repository = (*membershipRepository)(nil)

func NewMembershipRepository(db *sqlx.DB) membership.Repository {
	return &membershipRepository{db: db}
}

func (repo *membershipRepository) CreateMembership(mb membership.Membership) (membership.Membership, error) {
	const query = `
		INSERT INTO membership (uid, user_id, class_id, role, status, joined_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := repo.db.QueryRow(
		query, mb.UID, mb.UserID, mb.ClassID, mb.Role, mb.Status,
		null.TimeFromPtr(mb.JoinedAt), mb.CreatedAt, mb.UpdatedAt,
	).Scan(&mb.ID)
	if err != nil {
		return membership.Membership{}, errors.Wrap(err, "creating membership")
	}
	return mb, nil
}

func (repo *membershipRepository) getMembership(query string, args ...interface{}) (membership.Membership, error) {
	var row membershipRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return membership.Membership{}, membership.ErrNotFound
		}
		return membership.Membership{}, errors.Wrap(err, "getting membership")
	}
	return row.toMembership(), nil
}

func (repo *membershipRepository) GetMembershipByID(id int) (membership.Membership, error) {
	return repo.getMembership(`SELECT * FROM membership WHERE id = $1`, id)
}

func (repo *membershipRepository) GetMembershipByUID(uid string) (membership.Membership, error) {
	return repo.getMembership(`SELECT * FROM membership WHERE uid = $1`, uid)
}

func (repo *membershipRepository) GetMembership(userID, classID int) (membership.Membership, error) {
	return repo.getMembership(`SELECT * FROM membership WHERE user_id = $1 AND class_id = $2`, userID, classID)
}

func (repo *membershipRepository) GetActiveMembership(userID, classID int) (membership.Membership, error) {
	return repo.getMembership(
		`SELECT * FROM membership WHERE user_id = $1 AND class_id = $2 AND status = $3`,
		userID, classID, membership.StatusActive,
	)
}

func (repo *membershipRepository) queryMemberships(query string, args ...interface{}) ([]membership.Membership, error) {
	var rows []membershipRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying memberships")
	}
	mbs := make([]membership.Membership, 0, len(rows))
	for _, row := range rows {
		mbs = append(mbs, row.toMembership())
	}
	return mbs, nil
}

func (repo *membershipRepository) QueryMembershipsByClass(classID int) ([]membership.Membership, error) {
	return repo.queryMemberships(`SELECT * FROM membership WHERE class_id = $1 ORDER BY id`, classID)
}

func (repo *membershipRepository) QueryMembershipsByUser(userID int) ([]membership.Membership, error) {
	return repo.queryMemberships(`SELECT * FROM membership WHERE user_id = $1 ORDER BY id`, userID)
}

func (repo *membershipRepository) UpdateMembership(mb membership.Membership) (membership.Membership, error) {
	const query = `
		UPDATE membership
		SET role = $2, status = $3, joined_at = $4, updated_at = $5
		WHERE id = $1`
	res, err := repo.db.Exec(query, mb.ID, mb.Role, mb.Status, null.TimeFromPtr(mb.JoinedAt), mb.UpdatedAt)
	if err != nil {
		return membership.Membership{}, errors.Wrap(err, "updating membership")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return membership.Membership{}, membership.ErrNotFound
	}
	return mb, nil
}
