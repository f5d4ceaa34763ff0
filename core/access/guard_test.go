package access_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/access"
	"github.com/trezcool/kosoa/core/annotation"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/correction"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/submission"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/taskresource"
	"github.com/trezcool/kosoa/core/user"
	"github.com/trezcool/kosoa/core/workflow"
	emailsvc "github.com/trezcool/kosoa/services/email"
	inmemdb "github.com/trezcool/kosoa/storage/database/inmem"
)

type fixture struct {
	usrSvc   user.Service
	classSvc class.Service
	mbSvc    membership.Service
	taskSvc  task.Service
	trSvc    taskresource.Service
	subSvc   submission.Service
	corSvc   correction.Service
	annSvc   annotation.Service
	guard    *access.Guard

	seq int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := inmemdb.NewDB()
	conf := &core.Config{AppName: "Kosoa", TestMode: true}
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	wf := workflow.NewService()

	f := &fixture{}
	f.usrSvc = user.NewService(inmemdb.NewUserRepository(db), mailSvc, conf)
	f.mbSvc = membership.NewService(inmemdb.NewMembershipRepository(db))
	f.classSvc = class.NewService(inmemdb.NewClassRepository(db), f.mbSvc)
	f.taskSvc = task.NewService(inmemdb.NewTaskRepository(db), wf)
	f.trSvc = taskresource.NewService(inmemdb.NewTaskResourceRepository(db))
	f.subSvc = submission.NewService(inmemdb.NewSubmissionRepository(db), wf)
	f.corSvc = correction.NewService(inmemdb.NewCorrectionRepository(db), wf, f.subSvc)
	f.annSvc = annotation.NewService(inmemdb.NewAnnotationRepository(db))

	chains := access.NewChainResolver(f.usrSvc, f.classSvc, f.mbSvc, f.taskSvc, f.trSvc, f.subSvc, f.corSvc, f.annSvc)
	f.guard = access.NewGuard(chains, f.mbSvc)
	return f
}

func (f *fixture) createUser(t *testing.T, roles ...string) user.User {
	t.Helper()
	f.seq++
	usr, err := f.usrSvc.Create(user.NewUser{
		Name:     fmt.Sprintf("User %d", f.seq),
		Username: fmt.Sprintf("user%02d", f.seq),
		Password: "S3cretPwd!",
		Roles:    roles,
	})
	require.NoError(t, err)
	return usr
}

func (f *fixture) addStudent(t *testing.T, usr user.User, cls class.Class) {
	t.Helper()
	_, err := f.mbSvc.Create(membership.NewMembership{
		UserID: usr.ID, ClassID: cls.ID, Role: membership.RoleStudent, Status: membership.StatusActive,
	})
	require.NoError(t, err)
}

func TestGuard_adminBypass(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, user.RoleAdmin)

	// the chain is never resolved: a missing target does not block an admin
	dec, err := f.guard.Authorize(admin, access.VerbUpdate, access.ResourceTask, "no-such-uid")
	require.NoError(t, err)
	assert.True(t, dec.AdminBypass)
	assert.Equal(t, access.PermUpdateTasks, dec.Permission)
	assert.Zero(t, dec.Chain)

	dec, err = f.guard.Authorize(admin, access.VerbList, access.ResourceAuditLog, "")
	require.NoError(t, err)
	assert.True(t, dec.AdminBypass)
}

func TestGuard_classCreate(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)
	student := f.createUser(t, user.RoleStudent)

	_, err := f.guard.Authorize(teacher, access.VerbCreate, access.ResourceClass, "")
	assert.NoError(t, err)

	_, err = f.guard.Authorize(student, access.VerbCreate, access.ResourceClass, "")
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestGuard_taskAccess(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)
	student := f.createUser(t, user.RoleStudent)
	outsider := f.createUser(t, user.RoleStudent)

	cls, err := f.classSvc.Create(teacher, class.NewClass{Name: "Maths 101"})
	require.NoError(t, err)
	f.addStudent(t, student, cls)

	draft, err := f.taskSvc.Create(cls.ID, teacher.ID, task.NewTask{Title: "Homework 1"})
	require.NoError(t, err)

	t.Run("teacher reads draft", func(t *testing.T) {
		dec, err := f.guard.Authorize(teacher, access.VerbRead, access.ResourceTask, draft.UID)
		require.NoError(t, err)
		assert.Equal(t, membership.RoleTeacher, dec.ClassRole)
		assert.Equal(t, cls.ID, dec.Chain.ClassID)
	})

	t.Run("student cannot see a draft task", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbRead, access.ResourceTask, draft.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	published, err := f.taskSvc.UpdateStatus(draft, task.StatusPublished)
	require.NoError(t, err)

	t.Run("student reads published task", func(t *testing.T) {
		dec, err := f.guard.Authorize(student, access.VerbRead, access.ResourceTask, published.UID)
		require.NoError(t, err)
		assert.Equal(t, membership.RoleStudent, dec.ClassRole)
		assert.Equal(t, task.StatusPublished, dec.Chain.TaskStatus)
	})

	t.Run("non-member is denied even on published tasks", func(t *testing.T) {
		_, err := f.guard.Authorize(outsider, access.VerbRead, access.ResourceTask, published.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("student cannot mutate tasks", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbUpdate, access.ResourceTask, published.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
		_, err = f.guard.Authorize(student, access.VerbCreate, access.ResourceTask, cls.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("missing task resolves to not found, not forbidden", func(t *testing.T) {
		_, err := f.guard.Authorize(teacher, access.VerbRead, access.ResourceTask, "no-such-uid")
		assert.ErrorIs(t, err, access.ErrNotFound)
	})
}

func TestGuard_taskResourceAccess(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)
	student := f.createUser(t, user.RoleStudent)
	outsider := f.createUser(t, user.RoleStudent)

	cls, err := f.classSvc.Create(teacher, class.NewClass{Name: "Biology"})
	require.NoError(t, err)
	f.addStudent(t, student, cls)

	tsk, err := f.taskSvc.Create(cls.ID, teacher.ID, task.NewTask{Title: "Dissection"})
	require.NoError(t, err)

	res, err := f.trSvc.Create(tsk.ID, teacher.ID, taskresource.NewTaskResource{
		Name: "Handout", URL: "https://files.test.cd/handout.pdf",
	})
	require.NoError(t, err)

	t.Run("teacher attaches resources", func(t *testing.T) {
		_, err := f.guard.Authorize(teacher, access.VerbCreate, access.ResourceTaskResource, tsk.UID)
		assert.NoError(t, err)
	})

	t.Run("teacher reads resources of a draft task", func(t *testing.T) {
		dec, err := f.guard.Authorize(teacher, access.VerbRead, access.ResourceTaskResource, res.UID)
		require.NoError(t, err)
		assert.Equal(t, cls.ID, dec.Chain.ClassID)
	})

	t.Run("students wait for the task to be published", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbRead, access.ResourceTaskResource, res.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
		_, err = f.guard.Authorize(student, access.VerbList, access.ResourceTaskResource, tsk.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	tsk, err = f.taskSvc.UpdateStatus(tsk, task.StatusPublished)
	require.NoError(t, err)

	t.Run("student reads resources of a published task", func(t *testing.T) {
		dec, err := f.guard.Authorize(student, access.VerbRead, access.ResourceTaskResource, res.UID)
		require.NoError(t, err)
		assert.Equal(t, task.StatusPublished, dec.Chain.TaskStatus)
	})

	t.Run("students never mutate resources", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbUpdate, access.ResourceTaskResource, res.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
		_, err = f.guard.Authorize(student, access.VerbCreate, access.ResourceTaskResource, tsk.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
		_, err = f.guard.Authorize(student, access.VerbDelete, access.ResourceTaskResource, res.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("non-member is denied", func(t *testing.T) {
		_, err := f.guard.Authorize(outsider, access.VerbRead, access.ResourceTaskResource, res.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}

func TestGuard_classDeletionBreaksChains(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)

	cls, err := f.classSvc.Create(teacher, class.NewClass{Name: "Latin"})
	require.NoError(t, err)

	tsk, err := f.taskSvc.Create(cls.ID, teacher.ID, task.NewTask{Title: "Declensions"})
	require.NoError(t, err)

	_, err = f.guard.Authorize(teacher, access.VerbRead, access.ResourceTask, tsk.UID)
	require.NoError(t, err)

	require.NoError(t, f.classSvc.Delete(cls.ID))

	// nothing under the class survives its deletion; the teacher's surviving
	// role must not turn a dangling reference into an allow
	_, err = f.guard.Authorize(teacher, access.VerbRead, access.ResourceTask, tsk.UID)
	assert.ErrorIs(t, err, access.ErrNotFound)

	_, err = f.taskSvc.GetByID(tsk.ID)
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestGuard_submissionAccess(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)
	student := f.createUser(t, user.RoleStudent)
	otherStudent := f.createUser(t, user.RoleStudent)

	cls, err := f.classSvc.Create(teacher, class.NewClass{Name: "Physics"})
	require.NoError(t, err)
	f.addStudent(t, student, cls)
	f.addStudent(t, otherStudent, cls)

	tsk, err := f.taskSvc.Create(cls.ID, teacher.ID, task.NewTask{Title: "Lab report"})
	require.NoError(t, err)

	t.Run("no submissions against draft tasks", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbCreate, access.ResourceSubmission, tsk.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	tsk, err = f.taskSvc.UpdateStatus(tsk, task.StatusPublished)
	require.NoError(t, err)

	t.Run("student submits against published task", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbCreate, access.ResourceSubmission, tsk.UID)
		assert.NoError(t, err)
	})

	t.Run("teacher does not submit", func(t *testing.T) {
		_, err := f.guard.Authorize(teacher, access.VerbCreate, access.ResourceSubmission, tsk.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	sub, err := f.subSvc.Create(tsk.ID, student.ID, submission.NewSubmission{})
	require.NoError(t, err)

	t.Run("owner updates own draft", func(t *testing.T) {
		dec, err := f.guard.Authorize(student, access.VerbUpdate, access.ResourceSubmission, sub.UID)
		require.NoError(t, err)
		assert.Equal(t, student.ID, dec.Chain.SubmissionOwnerID)
	})

	t.Run("classmate sees nothing of it", func(t *testing.T) {
		_, err := f.guard.Authorize(otherStudent, access.VerbRead, access.ResourceSubmission, sub.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
		_, err = f.guard.Authorize(otherStudent, access.VerbUpdate, access.ResourceSubmission, sub.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	sub, err = f.subSvc.UpdateStatus(sub, submission.StatusSubmitted)
	require.NoError(t, err)

	t.Run("owner cannot edit once handed in", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbUpdate, access.ResourceSubmission, sub.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)

		// reading stays allowed
		_, err = f.guard.Authorize(student, access.VerbRead, access.ResourceSubmission, sub.UID)
		assert.NoError(t, err)
	})

	t.Run("teacher may edit at any stage", func(t *testing.T) {
		_, err := f.guard.Authorize(teacher, access.VerbUpdate, access.ResourceSubmission, sub.UID)
		assert.NoError(t, err)
	})
}

func TestGuard_annotationChain(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)
	student := f.createUser(t, user.RoleStudent)
	otherStudent := f.createUser(t, user.RoleStudent)

	cls, err := f.classSvc.Create(teacher, class.NewClass{Name: "History"})
	require.NoError(t, err)
	f.addStudent(t, student, cls)
	f.addStudent(t, otherStudent, cls)

	tsk, err := f.taskSvc.Create(cls.ID, teacher.ID, task.NewTask{Title: "Essay"})
	require.NoError(t, err)
	tsk, err = f.taskSvc.UpdateStatus(tsk, task.StatusPublished)
	require.NoError(t, err)

	sub, err := f.subSvc.Create(tsk.ID, student.ID, submission.NewSubmission{})
	require.NoError(t, err)
	sub, err = f.subSvc.UpdateStatus(sub, submission.StatusSubmitted)
	require.NoError(t, err)

	cor, err := f.corSvc.Create(sub, teacher.ID, correction.NewCorrection{})
	require.NoError(t, err)

	ann, err := f.annSvc.Create(cor.ID, teacher.ID, annotation.NewAnnotation{
		Kind: annotation.KindComment, Page: 1, Body: "nice intro",
	})
	require.NoError(t, err)

	t.Run("teacher annotates", func(t *testing.T) {
		_, err := f.guard.Authorize(teacher, access.VerbCreate, access.ResourceAnnotation, cor.UID)
		assert.NoError(t, err)
	})

	t.Run("submission owner reads the annotation", func(t *testing.T) {
		dec, err := f.guard.Authorize(student, access.VerbRead, access.ResourceAnnotation, ann.UID)
		require.NoError(t, err)
		assert.Equal(t, cls.ID, dec.Chain.ClassID)
		assert.Equal(t, student.ID, dec.Chain.SubmissionOwnerID)
	})

	t.Run("submission owner cannot annotate", func(t *testing.T) {
		_, err := f.guard.Authorize(student, access.VerbCreate, access.ResourceAnnotation, cor.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})

	t.Run("classmate is denied", func(t *testing.T) {
		_, err := f.guard.Authorize(otherStudent, access.VerbRead, access.ResourceAnnotation, ann.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}

func TestGuard_membershipRevocation(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)

	cls, err := f.classSvc.Create(teacher, class.NewClass{Name: "Chemistry"})
	require.NoError(t, err)

	_, err = f.guard.Authorize(teacher, access.VerbUpdate, access.ResourceClass, cls.UID)
	require.NoError(t, err)

	// revoking the membership takes effect on the very next check
	mb, err := f.mbSvc.GetByID(1)
	require.NoError(t, err)
	_, err = f.mbSvc.Remove(mb)
	require.NoError(t, err)

	_, err = f.guard.Authorize(teacher, access.VerbUpdate, access.ResourceClass, cls.UID)
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestGuard_auditLogsAreAdminOnly(t *testing.T) {
	f := newFixture(t)
	teacher := f.createUser(t, user.RoleTeacher)

	_, err := f.guard.Authorize(teacher, access.VerbList, access.ResourceAuditLog, "")
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestGuard_userAccess(t *testing.T) {
	f := newFixture(t)
	usr := f.createUser(t, user.RoleStudent)
	other := f.createUser(t, user.RoleStudent)

	t.Run("self read and update", func(t *testing.T) {
		_, err := f.guard.Authorize(usr, access.VerbRead, access.ResourceUser, usr.UID)
		assert.NoError(t, err)
		_, err = f.guard.Authorize(usr, access.VerbUpdate, access.ResourceUser, usr.UID)
		assert.NoError(t, err)
	})

	t.Run("someone else's account is off limits", func(t *testing.T) {
		_, err := f.guard.Authorize(usr, access.VerbRead, access.ResourceUser, other.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
		_, err = f.guard.Authorize(usr, access.VerbDelete, access.ResourceUser, usr.UID)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}

func TestPermissionFor(t *testing.T) {
	assert.Equal(t, access.PermUpdateTasks, access.PermissionFor(access.VerbUpdate, access.ResourceTask))
	assert.Equal(t, access.PermCreateCorrections, access.PermissionFor(access.VerbCreate, access.ResourceCorrection))

	// list shares the read key
	assert.Equal(t, access.PermReadSubmissions, access.PermissionFor(access.VerbList, access.ResourceSubmission))
	assert.Equal(t, access.PermReadAuditLogs, access.PermissionFor(access.VerbList, access.ResourceAuditLog))
}
