package inmemdb

import (
	"sort"

	"github.com/trezcool/kosoa/core/task"
)

type taskRepository struct {
	store *DB
	db    *table[task.Task]
}

var _ task.Repository = (*taskRepository)(nil)

func NewTaskRepository(db *DB) task.Repository {
	return &taskRepository{store: db, db: db.task}
}

func (repo *taskRepository) CreateTask(t task.Task) (task.Task, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	t.ID = repo.db.nextPK()
	repo.db.rows[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) GetTaskByID(id int) (task.Task, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if t, ok := repo.db.rows[id]; ok {
		return *t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) GetTaskByUID(uid string) (task.Task, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, t := range repo.db.rows {
		if t.UID == uid {
			return *t, nil
		}
	}
	return task.Task{}, task.ErrNotFound
}

func (repo *taskRepository) QueryTasksByClass(classID int) ([]task.Task, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var tasks []task.Task
	for _, t := range repo.db.rows {
		if t.ClassID == classID {
			tasks = append(tasks, *t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (repo *taskRepository) UpdateTask(t task.Task) (task.Task, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[t.ID]; !ok {
		return task.Task{}, task.ErrNotFound
	}
	repo.db.rows[t.ID] = &t
	return t, nil
}

func (repo *taskRepository) DeleteTasksByID(ids ...int) error {
	repo.store.deleteTasksCascade(ids...)
	return nil
}
