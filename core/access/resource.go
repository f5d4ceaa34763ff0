// Package access decides, for any protected resource, whether the acting
// user may perform an operation on it. Decisions combine the actor's global
// roles, their class membership role and the resource's ownership chain,
// recomputed from current storage on every request (no cached permissions).
package access

// Verb is the operation kind being attempted on a resource.
type Verb string

const (
	VerbCreate Verb = "create"
	VerbRead   Verb = "read"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
	VerbList   Verb = "list"
)

// IsMutating reports whether the verb changes state; mutating decisions
// are the ones the audit log records.
func (v Verb) IsMutating() bool {
	switch v {
	case VerbCreate, VerbUpdate, VerbDelete:
		return true
	}
	return false
}

// Resource is the closed set of protected resource kinds. Adding a kind
// means adding its permission keys to the catalog, a chain-resolution arm
// and a rule-table arm; the exhaustive switches below surface any miss.
type Resource int

const (
	ResourceUser Resource = iota
	ResourceClass
	ResourceMembership
	ResourceTask
	ResourceTaskResource
	ResourceSubmission
	ResourceCorrection
	ResourceAnnotation
	ResourceComment
	ResourceAuditLog
)

func (r Resource) String() string {
	switch r {
	case ResourceUser:
		return "user"
	case ResourceClass:
		return "class"
	case ResourceMembership:
		return "membership"
	case ResourceTask:
		return "task"
	case ResourceTaskResource:
		return "task-resource"
	case ResourceSubmission:
		return "submission"
	case ResourceCorrection:
		return "correction"
	case ResourceAnnotation:
		return "annotation"
	case ResourceComment:
		return "comment"
	case ResourceAuditLog:
		return "audit-log"
	}
	return "unknown"
}
