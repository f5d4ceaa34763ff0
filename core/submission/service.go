package submission

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("submission not found")
)

type (
	Repository interface {
		CreateSubmission(sub Submission) (Submission, error)
		GetSubmissionByID(id int) (Submission, error)
		GetSubmissionByUID(uid string) (Submission, error)
		QuerySubmissionsByTask(taskID int) ([]Submission, error)
		QuerySubmissionsByStudent(studentID int) ([]Submission, error)
		UpdateSubmission(sub Submission) (Submission, error)
		DeleteSubmissionsByID(ids ...int) error
	}

	// TransitionValidator checks a submission status change against the
	// workflow transition matrix before it is persisted.
	TransitionValidator interface {
		ValidateSubmissionStatusTransition(sub Submission, newStatus Status) error
	}

	Service interface {
		Create(taskID, studentID int, ns NewSubmission) (Submission, error)
		GetByID(id int) (Submission, error)
		GetByUID(uid string) (Submission, error)
		QueryByTask(taskID int) ([]Submission, error)
		QueryByStudent(studentID int) ([]Submission, error)
		Update(orig Submission, us UpdateSubmission) (Submission, error)
		// UpdateStatus validates the transition against the status read at
		// the start of the operation; nothing is persisted when it fails.
		UpdateStatus(sub Submission, newStatus Status) (Submission, error)
		// MarkSubmissionCorrected transitions the submission to corrected;
		// called when its correction completes.
		MarkSubmissionCorrected(id int) error
		Delete(ids ...int) error
	}

	service struct {
		repo        Repository
		transitions TransitionValidator
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, transitions TransitionValidator) Service {
	return &service{repo: repo, transitions: transitions}
}

func (svc *service) Create(taskID, studentID int, ns NewSubmission) (Submission, error) {
	now := time.Now().UTC()
	sub := Submission{
		UID:       uuid.NewString(),
		TaskID:    taskID,
		StudentID: studentID,
		Status:    StatusDraft,
		PageURLs:  ns.PageURLs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateSubmission(sub)
}

func (svc *service) GetByID(id int) (Submission, error) {
	return svc.repo.GetSubmissionByID(id)
}

func (svc *service) GetByUID(uid string) (Submission, error) {
	return svc.repo.GetSubmissionByUID(uid)
}

func (svc *service) QueryByTask(taskID int) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByTask(taskID)
}

func (svc *service) QueryByStudent(studentID int) ([]Submission, error) {
	return svc.repo.QuerySubmissionsByStudent(studentID)
}

func (svc *service) Update(orig Submission, us UpdateSubmission) (Submission, error) {
	sub := orig
	if us.PageURLs != nil {
		sub.PageURLs = us.PageURLs
	}
	sub.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubmission(sub)
}

func (svc *service) UpdateStatus(sub Submission, newStatus Status) (Submission, error) {
	if err := svc.transitions.ValidateSubmissionStatusTransition(sub, newStatus); err != nil {
		return Submission{}, err
	}
	sub.Status = newStatus
	if newStatus == StatusSubmitted && sub.SubmittedAt == nil {
		now := time.Now().UTC()
		sub.SubmittedAt = &now
	}
	sub.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubmission(sub)
}

func (svc *service) MarkSubmissionCorrected(id int) error {
	sub, err := svc.repo.GetSubmissionByID(id)
	if err != nil {
		return err
	}
	_, err = svc.UpdateStatus(sub, StatusCorrected)
	return err
}

func (svc *service) Delete(ids ...int) error {
	return svc.repo.DeleteSubmissionsByID(ids...)
}
