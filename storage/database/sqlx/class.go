package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/class"
)

type classRow struct {
	ID          int       `db:"id"`
	UID         string    `db:"uid"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Level       string    `db:"level"`
	Subject     string    `db:"subject"`
	CreatedBy   int       `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r classRow) toClass() class.Class {
	return class.Class(r)
}

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil)

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(cls class.Class) (class.Class, error) {
	const query = `
		INSERT INTO class (uid, name, description, level, subject, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := repo.db.QueryRow(
		query, cls.UID, cls.Name, cls.Description, cls.Level, cls.Subject,
		cls.CreatedBy, cls.CreatedAt, cls.UpdatedAt,
	).Scan(&cls.ID)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "creating class")
	}
	return cls, nil
}

func (repo *classRepository) QueryAllClasses() ([]class.Class, error) {
	var rows []classRow
	if err := repo.db.Select(&rows, `SELECT * FROM class ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classesOf(rows), nil
}

func (repo *classRepository) getClass(query string, args ...interface{}) (class.Class, error) {
	var row classRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, errors.Wrap(err, "getting class")
	}
	return row.toClass(), nil
}

func (repo *classRepository) GetClassByID(id int) (class.Class, error) {
	return repo.getClass(`SELECT * FROM class WHERE id = $1`, id)
}

func (repo *classRepository) GetClassByUID(uid string) (class.Class, error) {
	return repo.getClass(`SELECT * FROM class WHERE uid = $1`, uid)
}

func (repo *classRepository) QueryClassesByIDs(ids ...int) ([]class.Class, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT * FROM class WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, errors.Wrap(err, "building class query")
	}
	var rows []classRow
	if err = repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	return classesOf(rows), nil
}

func (repo *classRepository) UpdateClass(cls class.Class) (class.Class, error) {
	const query = `
		UPDATE class
		SET name = $2, description = $3, level = $4, subject = $5, updated_at = $6
		WHERE id = $1`
	res, err := repo.db.Exec(query, cls.ID, cls.Name, cls.Description, cls.Level, cls.Subject, cls.UpdatedAt)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return class.Class{}, class.ErrNotFound
	}
	return cls, nil
}

func (repo *classRepository) DeleteClassesByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM class WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return nil
}

func classesOf(rows []classRow) []class.Class {
	classes := make([]class.Class, 0, len(rows))
	for _, row := range rows {
		classes = append(classes, row.toClass())
	}
	return classes
}
