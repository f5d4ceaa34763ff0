package access

import (
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/user"
)

var (
	// errors
	// ErrNotFound is returned both for resources that do not exist and for
	// resources behind a broken ownership chain; callers must not be able to
	// probe for existence through the guard.
	ErrNotFound = errors.New("not found")
	// ErrForbidden carries the uniform denial message; it never explains
	// which rule failed.
	ErrForbidden = errors.New("permission denied")
)

// RoleResolver resolves the actor's role within a class from active
// memberships only. Satisfied by membership.Service.
type RoleResolver interface {
	RoleOf(userID, classID int) membership.Role
}

// Decision is the outcome of an allowed authorization check, exposed so the
// audit layer can record what was resolved without re-walking the chain.
type Decision struct {
	Permission  Permission
	Chain       Chain
	ClassRole   membership.Role
	AdminBypass bool
}

// Guard answers "may this actor perform this verb on this resource?".
// Every check re-resolves membership role and ownership chain from current
// storage; revoking a membership takes effect on the next request.
type Guard struct {
	chains *ChainResolver
	roles  RoleResolver
}

func NewGuard(chains *ChainResolver, roles RoleResolver) *Guard {
	return &Guard{chains: chains, roles: roles}
}

// Authorize checks actor against (verb, resource, ref) and returns the
// decision when allowed. For read/update/delete, ref is the target's uid;
// for create/list, ref is the uid of the parent scope (class for tasks and
// memberships, task for task resources and submissions, submission for
// corrections, correction for annotations and comments) and may be empty for
// unscoped kinds.
// It returns ErrNotFound when any chain link is missing and ErrForbidden
// when the rule table denies; any other error is a storage failure.
func (g *Guard) Authorize(actor user.User, verb Verb, res Resource, ref string) (Decision, error) {
	dec := Decision{Permission: PermissionFor(verb, res)}

	// admins bypass chain resolution entirely; a broken chain must not
	// block operator repairs
	if actor.IsAdmin() {
		dec.AdminBypass = true
		return dec, nil
	}

	var err error
	if verb == VerbCreate || verb == VerbList {
		dec.Chain, err = g.chains.ResolveScope(res, ref)
	} else {
		dec.Chain, err = g.chains.Resolve(res, ref)
	}
	if err != nil {
		return Decision{}, err
	}

	dec.ClassRole = membership.RoleNone
	if dec.Chain.ClassID != 0 {
		dec.ClassRole = g.roles.RoleOf(actor.ID, dec.Chain.ClassID)
	}

	if !g.allowed(actor, verb, res, dec) {
		return Decision{}, ErrForbidden
	}
	return dec, nil
}

// allowed is the rule table. Non-admin paths only; admin bypass never
// reaches it.
func (g *Guard) allowed(actor user.User, verb Verb, res Resource, dec Decision) bool {
	ch := dec.Chain
	isClassTeacher := dec.ClassRole == membership.RoleTeacher
	isClassStudent := dec.ClassRole == membership.RoleStudent
	isOwner := ch.ResourceOwnerID != 0 && ch.ResourceOwnerID == actor.ID
	isSubmissionOwner := ch.SubmissionOwnerID != 0 && ch.SubmissionOwnerID == actor.ID

	switch res {
	case ResourceUser:
		switch verb {
		case VerbRead, VerbUpdate:
			return isOwner
		}
		return false // create/delete/list are admin-only

	case ResourceClass:
		switch verb {
		case VerbCreate:
			return actor.IsTeacher()
		case VerbRead:
			return isClassTeacher || isClassStudent
		case VerbList:
			return true // listing is scoped to the actor's own classes
		case VerbUpdate, VerbDelete:
			return isClassTeacher
		}

	case ResourceMembership:
		switch verb {
		case VerbRead:
			return isClassTeacher || isOwner
		case VerbCreate, VerbUpdate, VerbDelete, VerbList:
			return isClassTeacher
		}

	case ResourceTask:
		switch verb {
		case VerbRead:
			if isClassTeacher {
				return true
			}
			return isClassStudent && ch.TaskStatus == task.StatusPublished
		case VerbList:
			// students get the list filtered down to published tasks
			return isClassTeacher || isClassStudent
		case VerbCreate, VerbUpdate, VerbDelete:
			return isClassTeacher
		}

	case ResourceTaskResource:
		switch verb {
		case VerbRead, VerbList:
			if isClassTeacher {
				return true
			}
			// students see materials of published tasks only
			return isClassStudent && ch.TaskStatus == task.StatusPublished
		case VerbCreate, VerbUpdate, VerbDelete:
			return isClassTeacher
		}

	case ResourceSubmission:
		switch verb {
		case VerbCreate:
			// students submit against published tasks only
			return isClassStudent && ch.TaskStatus == task.StatusPublished
		case VerbRead:
			return isClassTeacher || isSubmissionOwner
		case VerbList:
			return isClassTeacher || isClassStudent
		case VerbUpdate:
			if isClassTeacher {
				return true
			}
			return isSubmissionOwner && ch.SubmissionStatus.AllowsStudentEdit()
		case VerbDelete:
			return isClassTeacher
		}

	case ResourceCorrection, ResourceAnnotation, ResourceComment:
		switch verb {
		case VerbRead, VerbList:
			return isClassTeacher || isSubmissionOwner
		case VerbCreate, VerbUpdate, VerbDelete:
			return isClassTeacher
		}

	case ResourceAuditLog:
		return false // admin-only, handled by the bypass
	}
	return false
}
