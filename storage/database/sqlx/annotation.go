package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/annotation"
)

type annotationRow struct {
	ID           int       `db:"id"`
	UID          string    `db:"uid"`
	CorrectionID int       `db:"correction_id"`
	Kind         string    `db:"kind"`
	Page         int       `db:"page"`
	Body         string    `db:"body"`
	CreatedBy    int       `db:"created_by"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r annotationRow) toAnnotation() annotation.Annotation {
	return annotation.Annotation{
		ID:           r.ID,
		UID:          r.UID,
		CorrectionID: r.CorrectionID,
		Kind:         annotation.Kind(r.Kind),
		Page:         r.Page,
		Body:         r.Body,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type annotationRepository struct {
	db *sqlx.DB
}

var _ annotation.Repository = (*annotationRepository)(nil)

func NewAnnotationRepository(db *sqlx.DB) annotation.Repository {
	return &annotationRepository{db: db}
}

func (repo *annotationRepository) CreateAnnotation(ann annotation.Annotation) (annotation.Annotation, error) {
	const query = `
		INSERT INTO annotation (uid, correction_id, kind, page, body, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := repo.db.QueryRow(
		query, ann.UID, ann.CorrectionID, ann.Kind, ann.Page, ann.Body,
		ann.CreatedBy, ann.CreatedAt, ann.UpdatedAt,
	).Scan(&ann.ID)
	if err != nil {
		return annotation.Annotation{}, errors.Wrap(err, "creating annotation")
	}
	return ann, nil
}

func (repo *annotationRepository) getAnnotation(query string, args ...interface{}) (annotation.Annotation, error) {
	var row annotationRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return annotation.Annotation{}, annotation.ErrNotFound
		}
		return annotation.Annotation{}, errors.Wrap(err, "getting annotation")
	}
	return row.toAnnotation(), nil
}

func (repo *annotationRepository) GetAnnotationByID(id int) (annotation.Annotation, error) {
	return repo.getAnnotation(`SELECT * FROM annotation WHERE id = $1`, id)
}

func (repo *annotationRepository) GetAnnotationByUID(uid string) (annotation.Annotation, error) {
	return repo.getAnnotation(`SELECT * FROM annotation WHERE uid = $1`, uid)
}

func (repo *annotationRepository) QueryAnnotationsByCorrection(correctionID int, kinds ...annotation.Kind) ([]annotation.Annotation, error) {
	query := `SELECT * FROM annotation WHERE correction_id = ?`
	args := []interface{}{correctionID}
	if len(kinds) > 0 {
		query += ` AND kind IN (?)`
		args = append(args, kinds)
	}
	query += ` ORDER BY page, id`

	query, flatArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "building annotation query")
	}
	var rows []annotationRow
	if err = repo.db.Select(&rows, repo.db.Rebind(query), flatArgs...); err != nil {
		return nil, errors.Wrap(err, "querying annotations")
	}
	anns := make([]annotation.Annotation, 0, len(rows))
	for _, row := range rows {
		anns = append(anns, row.toAnnotation())
	}
	return anns, nil
}

func (repo *annotationRepository) UpdateAnnotation(ann annotation.Annotation) (annotation.Annotation, error) {
	const query = `
		UPDATE annotation
		SET page = $2, body = $3, updated_at = $4
		WHERE id = $1`
	res, err := repo.db.Exec(query, ann.ID, ann.Page, ann.Body, ann.UpdatedAt)
	if err != nil {
		return annotation.Annotation{}, errors.Wrap(err, "updating annotation")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return annotation.Annotation{}, annotation.ErrNotFound
	}
	return ann, nil
}

func (repo *annotationRepository) DeleteAnnotationsByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM annotation WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting annotations")
	}
	return nil
}
