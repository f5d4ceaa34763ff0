package sqlxrepos

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/audit"
)

type auditRow struct {
	ID         int       `db:"id"`
	UID        string    `db:"uid"`
	ActorID    int       `db:"actor_id"`
	ActorUID   string    `db:"actor_uid"`
	Action     string    `db:"action"`
	TargetType string    `db:"target_type"`
	TargetUID  string    `db:"target_uid"`
	Metadata   []byte    `db:"metadata"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r auditRow) toEntry() (audit.Entry, error) {
	e := audit.Entry{
		ID:         r.ID,
		UID:        r.UID,
		ActorID:    r.ActorID,
		ActorUID:   r.ActorUID,
		Action:     r.Action,
		TargetType: r.TargetType,
		TargetUID:  r.TargetUID,
		CreatedAt:  r.CreatedAt,
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &e.Metadata); err != nil {
			return audit.Entry{}, errors.Wrap(err, "decoding audit metadata")
		}
	}
	return e, nil
}

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil)

func NewAuditRepository(db *sqlx.DB) audit.Repository {
	return &auditRepository{db: db}
}

func (repo *auditRepository) CreateEntry(e audit.Entry) (audit.Entry, error) {
	var metadata []byte
	if e.Metadata != nil {
		var err error
		if metadata, err = json.Marshal(e.Metadata); err != nil {
			return audit.Entry{}, errors.Wrap(err, "encoding audit metadata")
		}
	}

	const query = `
		INSERT INTO audit_entry (uid, actor_id, actor_uid, action, target_type, target_uid, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := repo.db.QueryRow(
		query, e.UID, e.ActorID, e.ActorUID, e.Action, e.TargetType, e.TargetUID, metadata, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		return audit.Entry{}, errors.Wrap(err, "creating audit entry")
	}
	return e, nil
}

func (repo *auditRepository) GetEntryByUID(uid string) (audit.Entry, error) {
	var row auditRow
	if err := repo.db.Get(&row, `SELECT * FROM audit_entry WHERE uid = $1`, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return audit.Entry{}, audit.ErrNotFound
		}
		return audit.Entry{}, errors.Wrap(err, "getting audit entry")
	}
	return row.toEntry()
}

func (repo *auditRepository) FilterEntries(filter audit.QueryFilter) ([]audit.Entry, error) {
	query := `SELECT * FROM audit_entry WHERE 1=1`
	var args []interface{}

	if filter.ActorID != 0 {
		query += ` AND actor_id = ?`
		args = append(args, filter.ActorID)
	}
	if filter.Action != "" {
		query += ` AND action = ?`
		args = append(args, filter.Action)
	}
	if filter.TargetType != "" {
		query += ` AND target_type = ?`
		args = append(args, filter.TargetType)
	}
	if !filter.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since)
	}
	if !filter.Until.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, filter.Until)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var rows []auditRow
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "filtering audit entries")
	}
	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (repo *auditRepository) DeleteEntriesBefore(cutoff time.Time) (int, error) {
	res, err := repo.db.Exec(`DELETE FROM audit_entry WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "purging audit entries")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "purging audit entries")
	}
	return int(n), nil
}
