package inmemdb

import (
	"sort"

	"github.com/trezcool/kosoa/core/taskresource"
)

type taskResourceRepository struct {
	db *table[taskresource.TaskResource]
}

var _ taskresource.Repository = (*taskResourceRepository)(nil)

func NewTaskResourceRepository(db *DB) taskresource.Repository {
	return &taskResourceRepository{db: db.taskResource}
}

func (repo *taskResourceRepository) CreateTaskResource(tr taskresource.TaskResource) (taskresource.TaskResource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	tr.ID = repo.db.nextPK()
	repo.db.rows[tr.ID] = &tr
	return tr, nil
}

func (repo *taskResourceRepository) GetTaskResourceByID(id int) (taskresource.TaskResource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tr, ok := repo.db.rows[id]; ok {
		return *tr, nil
	}
	return taskresource.TaskResource{}, taskresource.ErrNotFound
}

func (repo *taskResourceRepository) GetTaskResourceByUID(uid string) (taskresource.TaskResource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tr := range repo.db.rows {
		if tr.UID == uid {
			return *tr, nil
		}
	}
	return taskresource.TaskResource{}, taskresource.ErrNotFound
}

func (repo *taskResourceRepository) QueryTaskResourcesByTask(taskID int) ([]taskresource.TaskResource, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var trs []taskresource.TaskResource
	for _, tr := range repo.db.rows {
		if tr.TaskID == taskID {
			trs = append(trs, *tr)
		}
	}
	sort.Slice(trs, func(i, j int) bool { return trs[i].ID < trs[j].ID })
	return trs, nil
}

func (repo *taskResourceRepository) UpdateTaskResource(tr taskresource.TaskResource) (taskresource.TaskResource, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[tr.ID]; !ok {
		return taskresource.TaskResource{}, taskresource.ErrNotFound
	}
	repo.db.rows[tr.ID] = &tr
	return tr, nil
}

func (repo *taskResourceRepository) DeleteTaskResourcesByID(ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.rows, id)
	}
	return nil
}
