package inmemdb

import (
	"sort"

	"github.com/trezcool/kosoa/core/submission"
)

type submissionRepository struct {
	store *DB
	db    *table[submission.Submission]
}

var _ submission.Repository = (*submissionRepository)(nil)

func NewSubmissionRepository(db *DB) submission.Repository {
	return &submissionRepository{store: db, db: db.submission}
}

func (repo *submissionRepository) CreateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = repo.db.nextPK()
	repo.db.rows[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) GetSubmissionByID(id int) (submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.rows[id]; ok {
		return *sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) GetSubmissionByUID(uid string) (submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, sub := range repo.db.rows {
		if sub.UID == uid {
			return *sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (repo *submissionRepository) queryWhere(match func(submission.Submission) bool) []submission.Submission {
	var subs []submission.Submission
	for _, sub := range repo.db.rows {
		if match(*sub) {
			subs = append(subs, *sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs
}

func (repo *submissionRepository) QuerySubmissionsByTask(taskID int) ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryWhere(func(sub submission.Submission) bool { return sub.TaskID == taskID }), nil
}

func (repo *submissionRepository) QuerySubmissionsByStudent(studentID int) ([]submission.Submission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryWhere(func(sub submission.Submission) bool { return sub.StudentID == studentID }), nil
}

func (repo *submissionRepository) UpdateSubmission(sub submission.Submission) (submission.Submission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[sub.ID]; !ok {
		return submission.Submission{}, submission.ErrNotFound
	}
	repo.db.rows[sub.ID] = &sub
	return sub, nil
}

func (repo *submissionRepository) DeleteSubmissionsByID(ids ...int) error {
	repo.store.deleteSubmissionsCascade(ids...)
	return nil
}
