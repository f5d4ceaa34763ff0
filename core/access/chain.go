package access

import (
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/annotation"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
)

type (
	// lookups are the slices of each entity service the resolver needs.

	UserLookup interface {
		GetByUID(uid string) (user.User, error)
	}

	ClassLookup interface {
		GetByID(id int) (class.Class, error)
		GetByUID(uid string) (class.Class, error)
	}

	MembershipLookup interface {
		GetByUID(uid string) (membership.Membership, error)
	}

	TaskLookup interface {
		GetByID(id int) (task.Task, error)
		GetByUID(uid string) (task.Task, error)
	}

	TaskResourceLookup interface {
		GetByUID(uid string) (taskresource.TaskResource, error)
	}

	SubmissionLookup interface {
		GetByID(id int) (submission.Submission, error)
		GetByUID(uid string) (submission.Submission, error)
	}

	CorrectionLookup interface {
		GetByID(id int) (correction.Correction, error)
		GetByUID(uid string) (correction.Correction, error)
	}

	AnnotationLookup interface {
		GetByUID(uid string) (annotation.Annotation, error)
	}
)

// Chain is the resolved ownership chain of a resource: the class it
// ultimately belongs to, who owns it and who owns the entities above it.
// Zero int fields mean "no such link for this resource kind".
type Chain struct {
	ClassID           int
	ResourceOwnerID   int
	SubmissionOwnerID int
	CorrectionOwnerID int
	TaskStatus        task.Status
	SubmissionStatus  submission.Status
}

// ChainResolver walks a resource's ownership chain bottom-up
// (annotation -> correction -> submission -> task -> class), reading every
// link from storage at resolution time. Any missing link fails the whole
// resolution with ErrNotFound; a chain is never partially resolved.
type ChainResolver struct {
	users         UserLookup
	classes       ClassLookup
	memberships   MembershipLookup
	tasks         TaskLookup
	taskResources TaskResourceLookup
	submissions   SubmissionLookup
	corrections   CorrectionLookup
	annotations   AnnotationLookup
}

func NewChainResolver(
	users UserLookup,
	classes ClassLookup,
	memberships MembershipLookup,
	tasks TaskLookup,
	taskResources TaskResourceLookup,
	submissions SubmissionLookup,
	corrections CorrectionLookup,
	annotations AnnotationLookup,
) *ChainResolver {
	return &ChainResolver{
		users:         users,
		classes:       classes,
		memberships:   memberships,
		tasks:         tasks,
		taskResources: taskResources,
		submissions:   submissions,
		corrections:   corrections,
		annotations:   annotations,
	}
}

// Resolve walks the chain of the resource identified by uid.
func (res *ChainResolver) Resolve(r Resource, uid string) (Chain, error) {
	switch r {
	case ResourceUser:
		usr, err := res.users.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, user.ErrNotFound)
		}
		return Chain{ResourceOwnerID: usr.ID}, nil

	case ResourceClass:
		cls, err := res.classes.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, class.ErrNotFound)
		}
		return Chain{ClassID: cls.ID, ResourceOwnerID: cls.CreatedBy}, nil

	case ResourceMembership:
		mb, err := res.memberships.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, membership.ErrNotFound)
		}
		if _, err = res.classes.GetByID(mb.ClassID); err != nil {
			return Chain{}, notFound(err, class.ErrNotFound)
		}
		return Chain{ClassID: mb.ClassID, ResourceOwnerID: mb.UserID}, nil

	case ResourceTask:
		t, err := res.tasks.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, task.ErrNotFound)
		}
		return res.fromTask(t, t.CreatedBy)

	case ResourceTaskResource:
		tr, err := res.taskResources.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, taskresource.ErrNotFound)
		}
		t, err := res.tasks.GetByID(tr.TaskID)
		if err != nil {
			return Chain{}, notFound(err, task.ErrNotFound)
		}
		return res.fromTask(t, tr.CreatedBy)

	case ResourceSubmission:
		sub, err := res.submissions.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, submission.ErrNotFound)
		}
		return res.fromSubmission(sub, sub.StudentID)

	case ResourceCorrection:
		cor, err := res.corrections.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, correction.ErrNotFound)
		}
		return res.fromCorrection(cor, cor.TeacherID)

	case ResourceAnnotation, ResourceComment:
		ann, err := res.annotations.GetByUID(uid)
		if err != nil {
			return Chain{}, notFound(err, annotation.ErrNotFound)
		}
		cor, err := res.corrections.GetByID(ann.CorrectionID)
		if err != nil {
			return Chain{}, notFound(err, correction.ErrNotFound)
		}
		return res.fromCorrection(cor, ann.CreatedBy)

	case ResourceAuditLog:
		// audit logs have no ownership chain; access is role-gated only
		return Chain{}, nil
	}
	return Chain{}, errors.Errorf("access: unresolvable resource kind %q", r)
}

// ResolveScope resolves the parent scope a create or list operation targets:
// tasks are scoped by class, task resources and submissions by task,
// corrections by submission, annotations and comments by correction,
// memberships by class. uid is the parent's uid. Kinds with no parent scope
// resolve to an empty chain.
func (res *ChainResolver) ResolveScope(r Resource, uid string) (Chain, error) {
	switch r {
	case ResourceUser, ResourceClass, ResourceAuditLog:
		return Chain{}, nil
	case ResourceMembership, ResourceTask:
		return res.Resolve(ResourceClass, uid)
	case ResourceTaskResource, ResourceSubmission:
		return res.Resolve(ResourceTask, uid)
	case ResourceCorrection:
		return res.Resolve(ResourceSubmission, uid)
	case ResourceAnnotation, ResourceComment:
		return res.Resolve(ResourceCorrection, uid)
	}
	return Chain{}, errors.Errorf("access: unresolvable resource kind %q", r)
}

// fromTask closes the chain over the task's class. The class row is fetched
// even though only its id is carried: a task pointing at a missing class is a
// broken chain and must resolve to ErrNotFound, never to an allow.
func (res *ChainResolver) fromTask(t task.Task, ownerID int) (Chain, error) {
	if _, err := res.classes.GetByID(t.ClassID); err != nil {
		return Chain{}, notFound(err, class.ErrNotFound)
	}
	return Chain{
		ClassID:         t.ClassID,
		ResourceOwnerID: ownerID,
		TaskStatus:      t.Status,
	}, nil
}

func (res *ChainResolver) fromSubmission(sub submission.Submission, ownerID int) (Chain, error) {
	t, err := res.tasks.GetByID(sub.TaskID)
	if err != nil {
		return Chain{}, notFound(err, task.ErrNotFound)
	}
	ch, err := res.fromTask(t, ownerID)
	if err != nil {
		return Chain{}, err
	}
	ch.SubmissionOwnerID = sub.StudentID
	ch.SubmissionStatus = sub.Status
	return ch, nil
}

func (res *ChainResolver) fromCorrection(cor correction.Correction, ownerID int) (Chain, error) {
	sub, err := res.submissions.GetByID(cor.SubmissionID)
	if err != nil {
		return Chain{}, notFound(err, submission.ErrNotFound)
	}
	ch, err := res.fromSubmission(sub, ownerID)
	if err != nil {
		return Chain{}, err
	}
	ch.CorrectionOwnerID = cor.TeacherID
	return ch, nil
}

// notFound collapses a missing chain link into the uniform ErrNotFound so a
// caller cannot distinguish "does not exist" from "exists behind a broken
// chain". Unexpected storage errors pass through.
func notFound(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return ErrNotFound
	}
	return err
}
