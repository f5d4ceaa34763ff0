package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kosoa/core/submission"
)

type submissionRow struct {
	ID          int            `db:"id"`
	UID         string         `db:"uid"`
	TaskID      int            `db:"task_id"`
	StudentID   int            `db:"student_id"`
	Status      string         `db:"status"`
	PageURLs    pq.StringArray `db:"page_urls"`
	SubmittedAt null.Time      `db:"submitted_at"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r submissionRow) toSubmission() submission.Submission {
	return submission.Submission{
		ID:          r.ID,
		UID:         r.UID,
		TaskID:      r.TaskID,
		StudentID:   r.StudentID,
		Status:      submission.Status(r.Status),
		PageURLs:    r.PageURLs,
		SubmittedAt: r.SubmittedAt.Ptr(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type submissionRepository struct {
	db *sqlx.DB
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *sqlx.DB) submission.Repository {
	return &submissionRepository{db: db}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	const query = `
		INSERT INTO submission (uid, task_id, student_id, status, page_urls, submitted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := repo.db.QueryRow(
		query, sub.UID, sub.TaskID, sub.StudentID, sub.Status,
		pq.StringArray(sub.PageURLs), null.TimeFromPtr(sub.SubmittedAt), sub.CreatedAt, sub.UpdatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo *submissionRepository) getSubmission(query string, args ...interface{}) (submission.Submission, error) {
	var row submissionRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return submission.Submission{}, submission.ErrNotFound
		}
		return submission.Submission{}, errors.Wrap(err, "getting submission")
	}
	return row.toSubmission(), nil
}

func (repo *submissionRepository) GetSubmissionByID(id int) (submission.Submission, error) {
	return repo.getSubmission(`SELECT * FROM submission WHERE id = $1`, id)
}

func (repo *submissionRepository) GetSubmissionByUID(uid string) (submission.Submission, error) {
	return repo.getSubmission(`SELECT * FROM submission WHERE uid = $1`, uid)
}

func (repo *submissionRepository) querySubmissions(query string, args ...interface{}) ([]submission.Submission, error) {
	var rows []submissionRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}
	subs := make([]submission.Submission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, row.toSubmission())
	}
	return subs, nil
}

func (repo *submissionRepository) QuerySubmissionsByTask(taskID int) ([]submission.Submission, error) {
	return repo.querySubmissions(`SELECT * FROM submission WHERE task_id = $1 ORDER BY id`, taskID)
}

func (repo *submissionRepository) QuerySubmissionsByStudent(studentID int) ([]submission.Submission, error) {
	return repo.querySubmissions(`SELECT * FROM submission WHERE student_id = $1 ORDER BY id`, studentID)
}

func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	const query = `
		UPDATE submission
		SET status = $2, page_urls = $3, submitted_at = $4, updated_at = $5
		WHERE id = $1`
	res, err := repo.db.Exec(
		query, sub.ID, sub.Status, pq.StringArray(sub.PageURLs),
		null.TimeFromPtr(sub.SubmittedAt), sub.UpdatedAt,
	)
	if err != nil {
		return submission.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return submission.Submission{}, submission.ErrNotFound
	}
	return sub, nil
}

func (repo *submissionRepository) DeleteSubmissionsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM submission WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting submissions")
	}
	return nil
}
