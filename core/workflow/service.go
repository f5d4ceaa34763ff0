package workflow

import (
	"fmt"
	"strings"

	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
)

var (
	taskMatrix = Matrix[task.Status]{
		task.StatusDraft:     {task.StatusPublished, task.StatusArchived},
		task.StatusPublished: {task.StatusArchived},
		task.StatusArchived:  {},
	}

	submissionMatrix = Matrix[submission.Status]{
		submission.StatusDraft:     {submission.StatusSubmitted, submission.StatusArchived},
		submission.StatusSubmitted: {submission.StatusCorrected, submission.StatusArchived},
		submission.StatusCorrected: {submission.StatusArchived},
		submission.StatusArchived:  {},
	}

	correctionMatrix = Matrix[correction.Status]{
		correction.StatusInProgress: {correction.StatusCompleted},
		correction.StatusCompleted:  {},
	}
)

// TransitionError signals a status-change request targeting a status
// unreachable from the current one. It carries the allowed targets so the
// caller can react constructively.
type TransitionError struct {
	Current   string
	Requested string
	Allowed   []string
}

func (err *TransitionError) Error() string {
	allowed := "none"
	if len(err.Allowed) > 0 {
		allowed = strings.Join(err.Allowed, ", ")
	}
	return fmt.Sprintf(
		"invalid status transition from '%s' to '%s'; allowed transitions: %s",
		err.Current, err.Requested, allowed,
	)
}

func newTransitionError[S Status](m Matrix[S], current, requested S) error {
	allowed := make([]string, 0, len(m[current]))
	for _, s := range m.Allowed(current) {
		allowed = append(allowed, string(s))
	}
	return &TransitionError{
		Current:   string(current),
		Requested: string(requested),
		Allowed:   allowed,
	}
}

// Service validates status changes for every workflow entity kind.
// It satisfies task.TransitionValidator, submission.TransitionValidator
// and correction.TransitionValidator.
type Service struct{}

var (
	_ task.TransitionValidator       = (*Service)(nil)
	_ submission.TransitionValidator = (*Service)(nil)
	_ correction.TransitionValidator = (*Service)(nil)
)

func NewService() *Service {
	return &Service{}
}

func (svc *Service) ValidateTaskStatusTransition(t task.Task, newStatus task.Status) error {
	if !taskMatrix.Valid(t.Status, newStatus) {
		return newTransitionError(taskMatrix, t.Status, newStatus)
	}
	return nil
}

func (svc *Service) ValidateSubmissionStatusTransition(sub submission.Submission, newStatus submission.Status) error {
	if !submissionMatrix.Valid(sub.Status, newStatus) {
		return newTransitionError(submissionMatrix, sub.Status, newStatus)
	}
	return nil
}

func (svc *Service) ValidateCorrectionStatusTransition(cor correction.Correction, newStatus correction.Status) error {
	if !correctionMatrix.Valid(cor.Status, newStatus) {
		return newTransitionError(correctionMatrix, cor.Status, newStatus)
	}
	return nil
}
