package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/taskresource"
)

type taskResourceRow struct {
	ID        int       `db:"id"`
	UID       string    `db:"uid"`
	TaskID    int       `db:"task_id"`
	Name      string    `db:"name"`
	URL       string    `db:"url"`
	CreatedBy int       `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r taskResourceRow) toTaskResource() taskresource.TaskResource {
	return taskresource.TaskResource{
		ID:        r.ID,
		UID:       r.UID,
		TaskID:    r.TaskID,
		Name:      r.Name,
		URL:       r.URL,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type taskResourceRepository struct {
	db *sqlx.DB
}

var _ taskresource.Repository = (*taskResourceRepository)(nil)

func NewTaskResourceRepository(db *sqlx.DB) taskresource.Repository {
	return &taskResourceRepository{db: db}
}

func (repo *taskResourceRepository) CreateTaskResource(tr taskresource.TaskResource) (taskresource.TaskResource, error) {
	const query = `
		INSERT INTO task_resource (uid, task_id, name, url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := repo.db.QueryRow(
		query, tr.UID, tr.TaskID, tr.Name, tr.URL, tr.CreatedBy, tr.CreatedAt, tr.UpdatedAt,
	).Scan(&tr.ID)
	if err != nil {
		return taskresource.TaskResource{}, errors.Wrap(err, "creating task resource")
	}
	return tr, nil
}

func (repo *taskResourceRepository) getTaskResource(query string, args ...interface{}) (taskresource.TaskResource, error) {
	var row taskResourceRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return taskresource.TaskResource{}, taskresource.ErrNotFound
		}
		return taskresource.TaskResource{}, errors.Wrap(err, "getting task resource")
	}
	return row.toTaskResource(), nil
}

func (repo *taskResourceRepository) GetTaskResourceByID(id int) (taskresource.TaskResource, error) {
	return repo.getTaskResource(`SELECT * FROM task_resource WHERE id = $1`, id)
}

func (repo *taskResourceRepository) GetTaskResourceByUID(uid string) (taskresource.TaskResource, error) {
	return repo.getTaskResource(`SELECT * FROM task_resource WHERE uid = $1`, uid)
}

func (repo *taskResourceRepository) QueryTaskResourcesByTask(taskID int) ([]taskresource.TaskResource, error) {
	var rows []taskResourceRow
	err := repo.db.Select(&rows, `SELECT * FROM task_resource WHERE task_id = $1 ORDER BY id`, taskID)
	if err != nil {
		return nil, errors.Wrap(err, "querying task resources")
	}
	trs := make([]taskresource.TaskResource, 0, len(rows))
	for _, row := range rows {
		trs = append(trs, row.toTaskResource())
	}
	return trs, nil
}

func (repo *taskResourceRepository) UpdateTaskResource(tr taskresource.TaskResource) (taskresource.TaskResource, error) {
	const query = `
		UPDATE task_resource
		SET name = $2, url = $3, updated_at = $4
		WHERE id = $1`
	res, err := repo.db.Exec(query, tr.ID, tr.Name, tr.URL, tr.UpdatedAt)
	if err != nil {
		return taskresource.TaskResource{}, errors.Wrap(err, "updating task resource")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return taskresource.TaskResource{}, taskresource.ErrNotFound
	}
	return tr, nil
}

func (repo *taskResourceRepository) DeleteTaskResourcesByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM task_resource WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting task resources")
	}
	return nil
}
