package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
)

func TestService_ValidateTaskStatusTransition(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name    string
		from    task.Status
		to      task.Status
		wantErr string
	}{
		{name: "draft to published", from: task.StatusDraft, to: task.StatusPublished},
		{name: "draft to archived", from: task.StatusDraft, to: task.StatusArchived},
		{name: "published to archived", from: task.StatusPublished, to: task.StatusArchived},
		{name: "same status is a no-op", from: task.StatusPublished, to: task.StatusPublished},
		{
			name: "published back to draft", from: task.StatusPublished, to: task.StatusDraft,
			wantErr: "invalid status transition from 'published' to 'draft'; allowed transitions: archived",
		},
		{
			name: "archived is terminal", from: task.StatusArchived, to: task.StatusPublished,
			wantErr: "invalid status transition from 'archived' to 'published'; allowed transitions: none",
		},
		{
			name: "unknown status has no transitions", from: task.Status("bogus"), to: task.StatusPublished,
			wantErr: "invalid status transition from 'bogus' to 'published'; allowed transitions: none",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateTaskStatusTransition(task.Task{Status: tt.from}, tt.to)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.IsType(t, &TransitionError{}, err)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestService_ValidateSubmissionStatusTransition(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name    string
		from    submission.Status
		to      submission.Status
		wantErr bool
	}{
		{name: "draft to submitted", from: submission.StatusDraft, to: submission.StatusSubmitted},
		{name: "draft to archived", from: submission.StatusDraft, to: submission.StatusArchived},
		{name: "submitted to corrected", from: submission.StatusSubmitted, to: submission.StatusCorrected},
		{name: "submitted to archived", from: submission.StatusSubmitted, to: submission.StatusArchived},
		{name: "corrected to archived", from: submission.StatusCorrected, to: submission.StatusArchived},
		{name: "same status is a no-op", from: submission.StatusSubmitted, to: submission.StatusSubmitted},
		{name: "draft cannot jump to corrected", from: submission.StatusDraft, to: submission.StatusCorrected, wantErr: true},
		{name: "submitted back to draft", from: submission.StatusSubmitted, to: submission.StatusDraft, wantErr: true},
		{name: "corrected back to submitted", from: submission.StatusCorrected, to: submission.StatusSubmitted, wantErr: true},
		{name: "archived is terminal", from: submission.StatusArchived, to: submission.StatusDraft, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateSubmissionStatusTransition(submission.Submission{Status: tt.from}, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.IsType(t, &TransitionError{}, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_ValidateCorrectionStatusTransition(t *testing.T) {
	svc := NewService()

	tests := []struct {
		name    string
		from    correction.Status
		to      correction.Status
		wantErr bool
	}{
		{name: "in_progress to completed", from: correction.StatusInProgress, to: correction.StatusCompleted},
		{name: "same status is a no-op", from: correction.StatusCompleted, to: correction.StatusCompleted},
		{name: "completed is terminal", from: correction.StatusCompleted, to: correction.StatusInProgress, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateCorrectionStatusTransition(correction.Correction{Status: tt.from}, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.IsType(t, &TransitionError{}, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatrix_Allowed(t *testing.T) {
	assert.ElementsMatch(t, []task.Status{task.StatusPublished, task.StatusArchived}, taskMatrix.Allowed(task.StatusDraft))
	assert.Empty(t, taskMatrix.Allowed(task.StatusArchived))
	assert.Empty(t, correctionMatrix.Allowed(correction.StatusCompleted))
}
