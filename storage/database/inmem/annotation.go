package inmemdb

import (
	"sort"

	"github.com/trezcool/kosoa/core/annotation"
)

type annotationRepository struct {
	db *table[annotation.Annotation]
}

var _ annotation.Repository = (*annotationRepository)(nil)

func NewAnnotationRepository(db *DB) annotation.Repository {
	return &annotationRepository{db: db.annotation}
}

func (repo *annotationRepository) CreateAnnotation(ann annotation.Annotation) (annotation.Annotation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	ann.ID = repo.db.nextPK()
	repo.db.rows[ann.ID] = &ann
	return ann, nil
}

func (repo *annotationRepository) GetAnnotationByID(id int) (annotation.Annotation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ann, ok := repo.db.rows[id]; ok {
		return *ann, nil
	}
	return annotation.Annotation{}, annotation.ErrNotFound
}

func (repo *annotationRepository) GetAnnotationByUID(uid string) (annotation.Annotation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, ann := range repo.db.rows {
		if ann.UID == uid {
			return *ann, nil
		}
	}
	return annotation.Annotation{}, annotation.ErrNotFound
}

func (repo *annotationRepository) QueryAnnotationsByCorrection(correctionID int, kinds ...annotation.Kind) ([]annotation.Annotation, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var anns []annotation.Annotation
	for _, ann := range repo.db.rows {
		if ann.CorrectionID != correctionID {
			continue
		}
		if len(kinds) > 0 && !kindIn(ann.Kind, kinds) {
			continue
		}
		anns = append(anns, *ann)
	}
	sort.Slice(anns, func(i, j int) bool {
		if anns[i].Page != anns[j].Page {
			return anns[i].Page < anns[j].Page
		}
		return anns[i].ID < anns[j].ID
	})
	return anns, nil
}

func kindIn(kind annotation.Kind, kinds []annotation.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (repo *annotationRepository) UpdateAnnotation(ann annotation.Annotation) (annotation.Annotation, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.rows[ann.ID]; !ok {
		return annotation.Annotation{}, annotation.ErrNotFound
	}
	repo.db.rows[ann.ID] = &ann
	return ann, nil
}

func (repo *annotationRepository) DeleteAnnotationsByID(ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	for _, id := range ids {
		delete(repo.db.rows, id)
	}
	return nil
}
