package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kosoa/core/correction"
)

type correctionRow struct {
	ID           int          `db:"id"`
	UID          string       `db:"uid"`
	SubmissionID int          `db:"submission_id"`
	TeacherID    int          `db:"teacher_id"`
	Status       string       `db:"status"`
	Grade        null.Float64 `db:"grade"`
	Feedback     string       `db:"feedback"`
	CompletedAt  null.Time    `db:"completed_at"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

func (r correctionRow) toCorrection() correction.Correction {
	return correction.Correction{
		ID:           r.ID,
		UID:          r.UID,
		SubmissionID: r.SubmissionID,
		TeacherID:    r.TeacherID,
		Status:       correction.Status(r.Status),
		Grade:        r.Grade.Ptr(),
		Feedback:     r.Feedback,
		CompletedAt:  r.CompletedAt.Ptr(),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type correctionRepository struct {
	db *sqlx.DB
}

var _ correction.Repository = (*correctionRepository)(nil)

func NewCorrectionRepository(db *sqlx.DB) correction.Repository {
	return &correctionRepository{db: db}
}

func (repo *correctionRepository) CreateCorrection(cor correction.Correction) (correction.Correction, error) {
	const query = `
		INSERT INTO correction (uid, submission_id, teacher_id, status, grade, feedback, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := repo.db.QueryRow(
		query, cor.UID, cor.SubmissionID, cor.TeacherID, cor.Status,
		null.Float64FromPtr(cor.Grade), cor.Feedback, null.TimeFromPtr(cor.CompletedAt),
		cor.CreatedAt, cor.UpdatedAt,
	).Scan(&cor.ID)
	if err != nil {
		return correction.Correction{}, errors.Wrap(err, "creating correction")
	}
	return cor, nil
}

func (repo *correctionRepository) getCorrection(query string, args ...interface{}) (correction.Correction, error) {
	var row correctionRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return correction.Correction{}, correction.ErrNotFound
		}
		return correction.Correction{}, errors.Wrap(err, "getting correction")
	}
	return row.toCorrection(), nil
}

func (repo *correctionRepository) GetCorrectionByID(id int) (correction.Correction, error) {
	return repo.getCorrection(`SELECT * FROM correction WHERE id = $1`, id)
}

func (repo *correctionRepository) GetCorrectionByUID(uid string) (correction.Correction, error) {
	return repo.getCorrection(`SELECT * FROM correction WHERE uid = $1`, uid)
}

func (repo *correctionRepository) GetCorrectionBySubmissionID(submissionID int) (correction.Correction, error) {
	return repo.getCorrection(`SELECT * FROM correction WHERE submission_id = $1`, submissionID)
}

func (repo *correctionRepository) QueryCorrectionsByTeacher(teacherID int) ([]correction.Correction, error) {
	var rows []correctionRow
	if err := repo.db.Select(&rows, `SELECT * FROM correction WHERE teacher_id = $1 ORDER BY id`, teacherID); err != nil {
		return nil, errors.Wrap(err, "querying corrections")
	}
	cors := make([]correction.Correction, 0, len(rows))
	for _, row := range rows {
		cors = append(cors, row.toCorrection())
	}
	return cors, nil
}

func (repo *correctionRepository) UpdateCorrection(cor correction.Correction) (correction.Correction, error) {
	const query = `
		UPDATE correction
		SET status = $2, grade = $3, feedback = $4, completed_at = $5, updated_at = $6
		WHERE id = $1`
	res, err := repo.db.Exec(
		query, cor.ID, cor.Status, null.Float64FromPtr(cor.Grade), cor.Feedback,
		null.TimeFromPtr(cor.CompletedAt), cor.UpdatedAt,
	)
	if err != nil {
		return correction.Correction{}, errors.Wrap(err, "updating correction")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return correction.Correction{}, correction.ErrNotFound
	}
	return cor, nil
}

func (repo *correctionRepository) DeleteCorrectionsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM correction WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting corrections")
	}
	return nil
}
