package inmemdb

import (
	"sort"

	"github.com/trezcool/kosoa/core/correction"
)

type correctionRepository struct {
	store *DB
	db    *table[correction.Correction]
}

var _ correction.Repository = (*correctionRepository)(nil)

func NewCorrectionRepository(db *DB) correction.Repository {
	return &correctionRepository{store: db, db: db.correction}
}

func (repo *correctionRepository) CreateCorrection(cor correction.Correction) (correction.Correction, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	cor.ID = repo.db.nextPK()
	repo.db.rows[cor.ID] = &cor
	return cor, nil
}

func (repo *correctionRepository) GetCorrectionByID(id int) (correction.Correction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if cor, ok := repo.db.rows[id]; ok {
		return *cor, nil
	}
	return correction.Correction{}, correction.ErrNotFound
}

func (repo *correctionRepository) GetCorrectionByUID(uid string) (correction.Correction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, cor := range repo.db.rows {
		if cor.UID == uid {
			return *cor, nil
		}
	}
	return correction.Correction{}, correction.ErrNotFound
}

func (repo *correctionRepository) GetCorrectionBySubmissionID(submissionID int) (correction.Correction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, cor := range repo.db.rows {
		if cor.SubmissionID == submissionID {
			return *cor, nil
		}
	}
	return correction.Correction{}, correction.ErrNotFound
}

func (repo *correctionRepository) QueryCorrectionsByTeacher(teacherID int) ([]correction.Correction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var cors []correction.Correction
	for _, cor := range repo.db.rows {
		if cor.TeacherID == teacherID {
			cors = append(cors, *cor)
		}
	}
	sort.Slice(cors, func(i, j int) bool { return cors[i].ID < cors[j].ID })
	return cors, nil
}

func (repo *correctionRepository) UpdateCorrection(cor correction.Correction) (correction.Correction, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[cor.ID]; !ok {
		return correction.Correction{}, correction.ErrNotFound
	}
	repo.db.rows[cor.ID] = &cor
	return cor, nil
}

func (repo *correctionRepository) DeleteCorrectionsByID(ids ...int) error {
	repo.store.deleteCorrectionsCascade(ids...)
	return nil
}
