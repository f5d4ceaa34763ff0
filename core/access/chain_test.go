package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
)

// stub lookups backed by plain maps; anything absent is the kind's ErrNotFound.
// They let a link be removed without the cascades a real repository applies,
// so each arm's own verification can be observed.

type stubClasses map[int]class.Class

func (s stubClasses) GetByID(id int) (class.Class, error) {
	if cls, ok := s[id]; ok {
		return cls, nil
	}
	return class.Class{}, class.ErrNotFound
}

func (s stubClasses) GetByUID(uid string) (class.Class, error) {
	for _, cls := range s {
		if cls.UID == uid {
			return cls, nil
		}
	}
	return class.Class{}, class.ErrNotFound
}

type stubUsers map[string]user.User

func (s stubUsers) GetByUID(uid string) (user.User, error) {
	if usr, ok := s[uid]; ok {
		return usr, nil
	}
	return user.User{}, user.ErrNotFound
}

type stubMemberships map[string]membership.Membership

func (s stubMemberships) GetByUID(uid string) (membership.Membership, error) {
	if mb, ok := s[uid]; ok {
		return mb, nil
	}
	return membership.Membership{}, membership.ErrNotFound
}

type stubTasks map[int]task.Task

func (s stubTasks) GetByID(id int) (task.Task, error) {
	if t, ok := s[id]; ok {
		return t, nil
	}
	return task.Task{}, task.ErrNotFound
}

func (s stubTasks) GetByUID(uid string) (task.Task, error) {
	for _, t := range s {
		if t.UID == uid {
			return t, nil
		}
	}
	return task.Task{}, task.ErrNotFound
}

type stubTaskResources map[string]taskresource.TaskResource

func (s stubTaskResources) GetByUID(uid string) (taskresource.TaskResource, error) {
	if tr, ok := s[uid]; ok {
		return tr, nil
	}
	return taskresource.TaskResource{}, taskresource.ErrNotFound
}

type stubSubmissions map[int]submission.Submission

func (s stubSubmissions) GetByID(id int) (submission.Submission, error) {
	if sub, ok := s[id]; ok {
		return sub, nil
	}
	return submission.Submission{}, submission.ErrNotFound
}

func (s stubSubmissions) GetByUID(uid string) (submission.Submission, error) {
	for _, sub := range s {
		if sub.UID == uid {
			return sub, nil
		}
	}
	return submission.Submission{}, submission.ErrNotFound
}

func TestChainResolver_danglingClassLink(t *testing.T) {
	classes := stubClasses{1: {ID: 1, UID: "cls-1", CreatedBy: 1}}
	tasks := stubTasks{
		10: {ID: 10, UID: "tsk-10", ClassID: 1, CreatedBy: 1, Status: task.StatusPublished},
		11: {ID: 11, UID: "tsk-11", ClassID: 9, CreatedBy: 1, Status: task.StatusPublished},
	}
	memberships := stubMemberships{
		"mb-1": {ID: 1, UID: "mb-1", UserID: 2, ClassID: 1},
		"mb-2": {ID: 2, UID: "mb-2", UserID: 2, ClassID: 9},
	}
	taskResources := stubTaskResources{
		"res-1": {ID: 1, UID: "res-1", TaskID: 11, CreatedBy: 1},
	}
	submissions := stubSubmissions{
		20: {ID: 20, UID: "sub-20", TaskID: 11, StudentID: 2},
	}

	res := access.NewChainResolver(stubUsers{}, classes, memberships, tasks, taskResources, submissions, nil, nil)

	ch, err := res.Resolve(access.ResourceTask, "tsk-10")
	require.NoError(t, err)
	assert.Equal(t, 1, ch.ClassID)

	// every arm crossing a class link fails it uniformly when the class is gone
	_, err = res.Resolve(access.ResourceTask, "tsk-11")
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = res.Resolve(access.ResourceMembership, "mb-2")
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = res.Resolve(access.ResourceTaskResource, "res-1")
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = res.Resolve(access.ResourceSubmission, "sub-20")
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = res.ResolveScope(access.ResourceSubmission, "tsk-11")
	assert.ErrorIs(t, err, access.ErrNotFound)
}
