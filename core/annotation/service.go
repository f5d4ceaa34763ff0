package annotation

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("annotation not found")
)

type (
	Repository interface {
		CreateAnnotation(ann Annotation) (Annotation, error)
		GetAnnotationByID(id int) (Annotation, error)
		GetAnnotationByUID(uid string) (Annotation, error)
		QueryAnnotationsByCorrection(correctionID int, kinds ...Kind) ([]Annotation, error)
		UpdateAnnotation(ann Annotation) (Annotation, error)
		DeleteAnnotationsByID(ids ...int) error
	}

	Service interface {
		Create(correctionID, createdBy int, na NewAnnotation) (Annotation, error)
		GetByID(id int) (Annotation, error)
		GetByUID(uid string) (Annotation, error)
		QueryByCorrection(correctionID int, kinds ...Kind) ([]Annotation, error)
		Update(orig Annotation, ua UpdateAnnotation) (Annotation, error)
		Delete(ids ...int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(correctionID, createdBy int, na NewAnnotation) (Annotation, error) {
	now := time.Now().UTC()
	ann := Annotation{
		UID:          uuid.NewString(),
		CorrectionID: correctionID,
		Kind:         na.Kind,
		Page:         na.Page,
		Body:         na.Body,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateAnnotation(ann)
}

func (svc *service) GetByID(id int) (Annotation, error) {
	return svc.repo.GetAnnotationByID(id)
}

func (svc *service) GetByUID(uid string) (Annotation, error) {
	return svc.repo.GetAnnotationByUID(uid)
}

func (svc *service) QueryByCorrection(correctionID int, kinds ...Kind) ([]Annotation, error) {
	return svc.repo.QueryAnnotationsByCorrection(correctionID, kinds...)
}

func (svc *service) Update(orig Annotation, ua UpdateAnnotation) (Annotation, error) {
	ann := orig
	if ua.Page != 0 {
		ann.Page = ua.Page
	}
	if ua.Body != "" {
		ann.Body = ua.Body
	}
	ann.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAnnotation(ann)
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteAnnotationsByID(ids...)
}
