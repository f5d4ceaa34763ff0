package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kosoa/core/task"
)

type taskRow struct {
	ID          int       `db:"id"`
	UID         string    `db:"uid"`
	ClassID     int       `db:"class_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Status      string    `db:"status"`
	MaxGrade    int       `db:"max_grade"`
	DueDate     null.Time `db:"due_date"`
	CreatedBy   int       `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r taskRow) toTask() task.Task {
	return task.Task{
		ID:          r.ID,
		UID:         r.UID,
		ClassID:     r.ClassID,
		Title:       r.Title,
		Description: r.Description,
		Status:      task.Status(r.Status),
		MaxGrade:    r.MaxGrade,
		DueDate:     r.DueDate.Ptr(),
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type taskRepository struct {
	db *sqlx.DB
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) task.Repository {
	return &taskRepository{db: db}
}

func (repo *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	const query = `
		INSERT INTO task (uid, class_id, title, description, status, max_grade, due_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := repo.db.QueryRow(
		query, t.UID, t.ClassID, t.Title, t.Description, t.Status, t.MaxGrade,
		null.TimeFromPtr(t.DueDate), t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	).Scan(&t.ID)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "creating task")
	}
	return t, nil
}

func (repo *taskRepository) getTask(query string, args ...interface{}) (task.Task, error) {
	var row taskRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, errors.Wrap(err, "getting task")
	}
	return row.toTask(), nil
}

func (repo *taskRepository) GetTaskByID(id int) (task.Task, error) {
	return repo.getTask(`SELECT * FROM task WHERE id = $1`, id)
}

func (repo *taskRepository) GetTaskByUID(uid string) (task.Task, error) {
	return repo.getTask(`SELECT * FROM task WHERE uid = $1`, uid)
}

func (repo *taskRepository) QueryTasksByClass(classID int) ([]task.Task, error) {
	var rows []taskRow
	if err := repo.db.Select(&rows, `SELECT * FROM task WHERE class_id = $1 ORDER BY id`, classID); err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, row.toTask())
	}
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(t task.Task) (task.Task, error) {
	const query = `
		UPDATE task
		SET title = $2, description = $3, status = $4, max_grade = $5, due_date = $6, updated_at = $7
		WHERE id = $1`
	res, err := repo.db.Exec(
		query, t.ID, t.Title, t.Description, t.Status, t.MaxGrade,
		null.TimeFromPtr(t.DueDate), t.UpdatedAt,
	)
	if err != nil {
		return task.Task{}, errors.Wrap(err, "updating task")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return task.Task{}, task.ErrNotFound
	}
	return t, nil
}

func (repo *taskRepository) DeleteTasksByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM task WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting tasks")
	}
	return nil
}
