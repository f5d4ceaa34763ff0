// Package inmemdb provides in-memory repositories backing tests and local
// development. Data lives for the life of the process.
package inmemdb

import (
	"sync"

	"github.com/trezcool/kosoa/core/annotation"
	"github.com/trezcool/kosoa/core/audit"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
)

type DB struct {
	user         *table[user.User]
	class        *table[class.Class]
	membership   *table[membership.Membership]
	task         *table[task.Task]
	taskResource *table[taskresource.TaskResource]
	submission   *table[submission.Submission]
	correction   *table[correction.Correction]
	annotation   *table[annotation.Annotation]
	audit        *table[audit.Entry]
}

func NewDB() *DB {
	return &DB{
		user:         newTable[user.User](),
		class:        newTable[class.Class](),
		membership:   newTable[membership.Membership](),
		task:         newTable[task.Task](),
		taskResource: newTable[taskresource.TaskResource](),
		submission:   newTable[submission.Submission](),
		correction:   newTable[correction.Correction](),
		annotation:   newTable[annotation.Annotation](),
		audit:        newTable[audit.Entry](),
	}
}

type table[T any] struct {
	mutex sync.RWMutex
	seq   int
	rows  map[int]*T
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[int]*T)}
}

// nextPK must be called with the write lock held.
func (t *table[T]) nextPK() int {
	t.seq++
	return t.seq
}

// deleteWhere removes every row matching the predicate and returns the ids
// of the removed rows.
func (t *table[T]) deleteWhere(match func(T) bool) []int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var ids []int
	for id, row := range t.rows {
		if match(*row) {
			ids = append(ids, id)
			delete(t.rows, id)
		}
	}
	return ids
}

func idSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Cascade deletes mirror the schema's ON DELETE CASCADE constraints: deleting
// a parent row takes its dependents with it, so no dangling ownership links
// are ever left behind.

func (db *DB) deleteClassesCascade(ids ...int) {
	set := idSet(ids)
	db.class.deleteWhere(func(cls class.Class) bool { return set[cls.ID] })
	db.membership.deleteWhere(func(mb membership.Membership) bool { return set[mb.ClassID] })
	taskIDs := db.task.deleteWhere(func(t task.Task) bool { return set[t.ClassID] })
	db.cascadeFromTasks(taskIDs)
}

func (db *DB) deleteTasksCascade(ids ...int) {
	set := idSet(ids)
	db.task.deleteWhere(func(t task.Task) bool { return set[t.ID] })
	db.cascadeFromTasks(ids)
}

func (db *DB) deleteSubmissionsCascade(ids ...int) {
	set := idSet(ids)
	db.submission.deleteWhere(func(sub submission.Submission) bool { return set[sub.ID] })
	db.cascadeFromSubmissions(ids)
}

func (db *DB) deleteCorrectionsCascade(ids ...int) {
	set := idSet(ids)
	db.correction.deleteWhere(func(cor correction.Correction) bool { return set[cor.ID] })
	db.annotation.deleteWhere(func(ann annotation.Annotation) bool { return set[ann.CorrectionID] })
}

func (db *DB) cascadeFromTasks(taskIDs []int) {
	if len(taskIDs) == 0 {
		return
	}
	set := idSet(taskIDs)
	db.taskResource.deleteWhere(func(tr taskresource.TaskResource) bool { return set[tr.TaskID] })
	subIDs := db.submission.deleteWhere(func(sub submission.Submission) bool { return set[sub.TaskID] })
	db.cascadeFromSubmissions(subIDs)
}

func (db *DB) cascadeFromSubmissions(subIDs []int) {
	if len(subIDs) == 0 {
		return
	}
	set := idSet(subIDs)
	corIDs := db.correction.deleteWhere(func(cor correction.Correction) bool { return set[cor.SubmissionID] })
	if len(corIDs) == 0 {
		return
	}
	corSet := idSet(corIDs)
	db.annotation.deleteWhere(func(ann annotation.Annotation) bool { return corSet[ann.CorrectionID] })
}
