package access

// Permission is a declarative `<verb>:<entityKindPlural>` key. Keys carry
// no decision logic: they name guard decisions for route wiring and audit
// metadata.
type Permission string

const (
	// Users
	PermReadUsers   Permission = "read:users"
	PermCreateUsers Permission = "create:users"
	PermUpdateUsers Permission = "update:users"
	PermDeleteUsers Permission = "delete:users"

	// Memberships
	PermReadMemberships   Permission = "read:memberships"
	PermCreateMemberships Permission = "create:memberships"
	PermUpdateMemberships Permission = "update:memberships"
	PermDeleteMemberships Permission = "delete:memberships"

	// Classes
	PermReadClasses   Permission = "read:classes"
	PermCreateClasses Permission = "create:classes"
	PermUpdateClasses Permission = "update:classes"
	PermDeleteClasses Permission = "delete:classes"

	// Tasks
	PermReadTasks   Permission = "read:tasks"
	PermCreateTasks Permission = "create:tasks"
	PermUpdateTasks Permission = "update:tasks"
	PermDeleteTasks Permission = "delete:tasks"

	// Task Resources
	PermReadTaskResources   Permission = "read:task-resources"
	PermCreateTaskResources Permission = "create:task-resources"
	PermUpdateTaskResources Permission = "update:task-resources"
	PermDeleteTaskResources Permission = "delete:task-resources"

	// Submissions
	PermReadSubmissions   Permission = "read:submissions"
	PermCreateSubmissions Permission = "create:submissions"
	PermUpdateSubmissions Permission = "update:submissions"
	PermDeleteSubmissions Permission = "delete:submissions"

	// Corrections
	PermReadCorrections   Permission = "read:corrections"
	PermCreateCorrections Permission = "create:corrections"
	PermUpdateCorrections Permission = "update:corrections"
	PermDeleteCorrections Permission = "delete:corrections"

	// Annotations
	PermReadAnnotations   Permission = "read:annotations"
	PermCreateAnnotations Permission = "create:annotations"
	PermUpdateAnnotations Permission = "update:annotations"
	PermDeleteAnnotations Permission = "delete:annotations"

	// Comments
	PermReadComments   Permission = "read:comments"
	PermCreateComments Permission = "create:comments"
	PermUpdateComments Permission = "update:comments"
	PermDeleteComments Permission = "delete:comments"

	// Audit Logs
	PermReadAuditLogs   Permission = "read:audit-logs"
	PermCreateAuditLogs Permission = "create:audit-logs"
	PermDeleteAuditLogs Permission = "delete:audit-logs"
)

var resourcePlurals = map[Resource]string{
	ResourceUser:         "users",
	ResourceClass:        "classes",
	ResourceMembership:   "memberships",
	ResourceTask:         "tasks",
	ResourceTaskResource: "task-resources",
	ResourceSubmission:   "submissions",
	ResourceCorrection:   "corrections",
	ResourceAnnotation:   "annotations",
	ResourceComment:      "comments",
	ResourceAuditLog:     "audit-logs",
}

// PermissionFor returns the catalog key naming a guard decision.
// List decisions share the read key.
func PermissionFor(v Verb, r Resource) Permission {
	verb := v
	if verb == VerbList {
		verb = VerbRead
	}
	return Permission(string(verb) + ":" + resourcePlurals[r])
}
