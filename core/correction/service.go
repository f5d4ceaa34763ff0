package correction

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/submission"
)

var (
	// errors
	ErrNotFound     = errors.New("correction not found")
	ErrExists       = errors.New("this submission already has a correction")
	ErrNotSubmitted = errors.New("only a submitted submission can be corrected")
)

type (
	Repository interface {
		CreateCorrection(cor Correction) (Correction, error)
		GetCorrectionByID(id int) (Correction, error)
		GetCorrectionByUID(uid string) (Correction, error)
		GetCorrectionBySubmissionID(submissionID int) (Correction, error)
		QueryCorrectionsByTeacher(teacherID int) ([]Correction, error)
		UpdateCorrection(cor Correction) (Correction, error)
		DeleteCorrectionsByID(ids ...int) error
	}

	// TransitionValidator checks a correction status change against the
	// workflow transition matrix before it is persisted.
	TransitionValidator interface {
		ValidateCorrectionStatusTransition(cor Correction, newStatus Status) error
	}

	// SubmissionMarker flips the owning submission to corrected when a
	// correction completes.
	SubmissionMarker interface {
		MarkSubmissionCorrected(id int) error
	}

	Service interface {
		Create(sub submission.Submission, teacherID int, nc NewCorrection) (Correction, error)
		GetByID(id int) (Correction, error)
		GetByUID(uid string) (Correction, error)
		GetBySubmissionID(submissionID int) (Correction, error)
		QueryByTeacher(teacherID int) ([]Correction, error)
		Update(orig Correction, uc UpdateCorrection) (Correction, error)
		// UpdateStatus validates the transition against the status read at
		// the start of the operation; nothing is persisted when it fails.
		UpdateStatus(cor Correction, newStatus Status) (Correction, error)
		// Complete marks the correction completed and transitions its
		// submission to corrected.
		Complete(cor Correction) (Correction, error)
		Delete(ids ...int) error
	}

	service struct {
		repo        Repository
		transitions TransitionValidator
		submissions SubmissionMarker
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, transitions TransitionValidator, submissions SubmissionMarker) Service {
	return &service{repo: repo, transitions: transitions, submissions: submissions}
}

func (svc *service) Create(sub submission.Submission, teacherID int, nc NewCorrection) (Correction, error) {
	if sub.Status != submission.StatusSubmitted {
		return Correction{}, core.NewValidationError(ErrNotSubmitted)
	}
	if _, err := svc.repo.GetCorrectionBySubmissionID(sub.ID); err == nil {
		return Correction{}, core.NewValidationError(ErrExists)
	} else if !errors.Is(err, ErrNotFound) {
		return Correction{}, err
	}

	now := time.Now().UTC()
	cor := Correction{
		UID:          uuid.NewString(),
		SubmissionID: sub.ID,
		TeacherID:    teacherID,
		Status:       StatusInProgress,
		Grade:        nc.Grade,
		Feedback:     nc.Feedback,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateCorrection(cor)
}

func (svc *service) GetByID(id int) (Correction, error) {
	return svc.repo.GetCorrectionByID(id)
}

func (svc *service) GetByUID(uid string) (Correction, error) {
	return svc.repo.GetCorrectionByUID(uid)
}

func (svc *service) GetBySubmissionID(submissionID int) (Correction, error) {
	return svc.repo.GetCorrectionBySubmissionID(submissionID)
}

func (svc *service) QueryByTeacher(teacherID int) ([]Correction, error) {
	return svc.repo.QueryCorrectionsByTeacher(teacherID)
}

func (svc *service) Update(orig Correction, uc UpdateCorrection) (Correction, error) {
	cor := orig
	if uc.Grade != nil {
		cor.Grade = uc.Grade
	}
	if uc.Feedback != "" {
		cor.Feedback = uc.Feedback
	}
	cor.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCorrection(cor)
}

func (svc *service) UpdateStatus(cor Correction, newStatus Status) (Correction, error) {
	if err := svc.transitions.ValidateCorrectionStatusTransition(cor, newStatus); err != nil {
		return Correction{}, err
	}
	if newStatus == StatusCompleted {
		return svc.Complete(cor)
	}
	cor.Status = newStatus
	cor.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateCorrection(cor)
}

func (svc *service) Complete(cor Correction) (Correction, error) {
	if err := svc.transitions.ValidateCorrectionStatusTransition(cor, StatusCompleted); err != nil {
		return Correction{}, err
	}
	alreadyCompleted := cor.IsCompleted()

	now := time.Now().UTC()
	cor.Status = StatusCompleted
	if cor.CompletedAt == nil {
		cor.CompletedAt = &now
	}
	cor.UpdatedAt = now
	cor, err := svc.repo.UpdateCorrection(cor)
	if err != nil {
		return Correction{}, err
	}
	// completing twice is an idempotent no-op; the submission was already flipped
	if !alreadyCompleted {
		if err = svc.submissions.MarkSubmissionCorrected(cor.SubmissionID); err != nil {
			return Correction{}, errors.Wrap(err, "marking submission corrected")
		}
	}
	return cor, nil
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteCorrectionsByID(ids...)
}
