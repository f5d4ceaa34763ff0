package correction_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/workflow"
	inmemdb "github.com/trezcool/kosoa/storage/database/inmem"
)

func setup(t *testing.T) (correction.Service, submission.Service) {
	t.Helper()
	db := inmemdb.NewDB()
	wf := workflow.NewService()
	subSvc := submission.NewService(inmemdb.NewSubmissionRepository(db), wf)
	corSvc := correction.NewService(inmemdb.NewCorrectionRepository(db), wf, subSvc)
	return corSvc, subSvc
}

func submittedSubmission(t *testing.T, subSvc submission.Service) submission.Submission {
	t.Helper()
	sub, err := subSvc.Create(1, 2, submission.NewSubmission{})
	require.NoError(t, err)
	sub, err = subSvc.UpdateStatus(sub, submission.StatusSubmitted)
	require.NoError(t, err)
	return sub
}

func TestService_Create(t *testing.T) {
	corSvc, subSvc := setup(t)
	sub := submittedSubmission(t, subSvc)

	grade := 14.5
	cor, err := corSvc.Create(sub, 9, correction.NewCorrection{Grade: &grade, Feedback: "solid work"})
	require.NoError(t, err)
	assert.NotEmpty(t, cor.UID)
	assert.Equal(t, sub.ID, cor.SubmissionID)
	assert.Equal(t, 9, cor.TeacherID)
	assert.Equal(t, correction.StatusInProgress, cor.Status)

	t.Run("second correction is rejected", func(t *testing.T) {
		_, err := corSvc.Create(sub, 9, correction.NewCorrection{})
		require.Error(t, err)
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.EqualError(t, vErr, correction.ErrExists.Error())
	})
}

func TestService_Create_requiresSubmittedStatus(t *testing.T) {
	corSvc, subSvc := setup(t)

	draft, err := subSvc.Create(1, 2, submission.NewSubmission{})
	require.NoError(t, err)

	_, err = corSvc.Create(draft, 9, correction.NewCorrection{})
	require.Error(t, err)
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.EqualError(t, vErr, correction.ErrNotSubmitted.Error())
}

func TestService_Complete(t *testing.T) {
	corSvc, subSvc := setup(t)
	sub := submittedSubmission(t, subSvc)

	cor, err := corSvc.Create(sub, 9, correction.NewCorrection{})
	require.NoError(t, err)

	cor, err = corSvc.Complete(cor)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusCompleted, cor.Status)
	require.NotNil(t, cor.CompletedAt)
	firstCompletedAt := *cor.CompletedAt

	// the owning submission follows
	sub, err = subSvc.GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.StatusCorrected, sub.Status)

	t.Run("completing twice is a no-op", func(t *testing.T) {
		again, err := corSvc.Complete(cor)
		require.NoError(t, err)
		assert.Equal(t, correction.StatusCompleted, again.Status)
		assert.Equal(t, firstCompletedAt, *again.CompletedAt)

		sub, err := subSvc.GetByID(sub.ID)
		require.NoError(t, err)
		assert.Equal(t, submission.StatusCorrected, sub.Status)
	})

	t.Run("completed cannot be reopened", func(t *testing.T) {
		_, err := corSvc.UpdateStatus(cor, correction.StatusInProgress)
		require.Error(t, err)
		var tErr *workflow.TransitionError
		require.True(t, errors.As(err, &tErr))
		assert.Equal(t, "completed", tErr.Current)
		assert.Equal(t, "in_progress", tErr.Requested)
	})
}

func TestService_UpdateStatus_completedDelegatesToComplete(t *testing.T) {
	corSvc, subSvc := setup(t)
	sub := submittedSubmission(t, subSvc)

	cor, err := corSvc.Create(sub, 9, correction.NewCorrection{})
	require.NoError(t, err)

	cor, err = corSvc.UpdateStatus(cor, correction.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusCompleted, cor.Status)
	require.NotNil(t, cor.CompletedAt)

	sub, err = subSvc.GetByID(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, submission.StatusCorrected, sub.Status)
}
