package main

import (
	"database/sql"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/class"
	"github.com/trezcool/kosoa/core/membership"
	"github.com/trezcool/kosoa/core/task"
	"github.com/trezcool/kosoa/core/user"
	"github.com/trezcool/kosoa/core/workflow"
	emailsvc "github.com/trezcool/kosoa/services/email"
	inmemdb "github.com/trezcool/kosoa/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()

	conf := &core.Config{AppName: "Kosoa", TestMode: true}
	db := inmemdb.NewDB()
	mbSvc := membership.NewService(inmemdb.NewMembershipRepository(db))
	return &commandLine{
		usrSvc:   user.NewService(inmemdb.NewUserRepository(db), emailsvc.NewConsoleServiceMock(conf), conf),
		classSvc: class.NewService(inmemdb.NewClassRepository(db), mbSvc),
		mbSvc:    mbSvc,
		taskSvc:  task.NewService(inmemdb.NewTaskRepository(db), workflow.NewService()),
	}
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
}

func Test_commandLine_run_help(t *testing.T) {
	cli := setup(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no args", args: []string{"admin"}},
		{name: "unknown command", args: []string{"admin", "destroyeverything"}},
		{name: "adduser without flags", args: []string{"admin", "adduser"}},
		{name: "resetpassword without flags", args: []string{"admin", "resetpassword"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, cli.run(tt.args), errHelp)
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	orig := migrateFunc
	defer func() { migrateFunc = orig }()

	var called bool
	migrateFunc = func(db *sql.DB) error {
		called = true
		return nil
	}

	require.NoError(t, cli.run([]string{"admin", "migrate"}))
	assert.True(t, called)
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	mockPassword("S3cretPwd!")

	err := cli.run([]string{"admin", "adduser", "-name", "Jo Admin", "-username", "joadmin", "-email", "jo@test.cd", "-admin"})
	require.NoError(t, err)

	usr, err := cli.usrSvc.GetByUsername("joadmin")
	require.NoError(t, err)
	assert.True(t, usr.IsAdmin())
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword("S3cretPwd!"))

	t.Run("existing user gets a password reset", func(t *testing.T) {
		mockPassword("N3wS3cret!")
		err := cli.run([]string{"admin", "adduser", "-username", "joadmin"})
		require.NoError(t, err)

		usr, err := cli.usrSvc.GetByUsername("joadmin")
		require.NoError(t, err)
		assert.NoError(t, usr.CheckPassword("N3wS3cret!"))
	})

	t.Run("empty password bails out", func(t *testing.T) {
		mockPassword("")
		assert.ErrorIs(t, cli.run([]string{"admin", "adduser", "-username", "whoever"}), errHelp)
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	mockPassword("S3cretPwd!")
	require.NoError(t, cli.run([]string{"admin", "adduser", "-name", "Jane", "-username", "jane01", "-email", "jane@test.cd"}))

	mockPassword("Fr3shStart!")
	require.NoError(t, cli.run([]string{"admin", "resetpassword", "-username", "jane@test.cd"}))

	usr, err := cli.usrSvc.GetByUsername("jane01")
	require.NoError(t, err)
	assert.NoError(t, usr.CheckPassword("Fr3shStart!"))

	t.Run("unknown user", func(t *testing.T) {
		err := cli.run([]string{"admin", "resetpassword", "-username", "ghost"})
		require.Error(t, err)
		assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	})
}

func Test_commandLine_seed(t *testing.T) {
	cli := setup(t)
	mockPassword("S3cretPwd!")

	require.NoError(t, cli.run([]string{"admin", "seed"}))

	teacher, err := cli.usrSvc.GetByUsernameOrEmail("demo.teacher@kosoa.cd")
	require.NoError(t, err)
	assert.True(t, teacher.IsTeacher())

	classes, err := cli.classSvc.QueryForMember(teacher.ID)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	cls := classes[0]

	mbs, err := cli.mbSvc.QueryByClass(cls.ID)
	require.NoError(t, err)
	assert.Len(t, mbs, 3) // teacher + 2 students

	tasks, err := cli.taskSvc.QueryByClass(cls.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.StatusPublished, tasks[0].Status)

	t.Run("re-running does not duplicate", func(t *testing.T) {
		require.NoError(t, cli.run([]string{"admin", "seed"}))

		classes, err := cli.classSvc.QueryForMember(teacher.ID)
		require.NoError(t, err)
		assert.Len(t, classes, 1)

		mbs, err := cli.mbSvc.QueryByClass(cls.ID)
		require.NoError(t, err)
		assert.Len(t, mbs, 3)

		tasks, err := cli.taskSvc.QueryByClass(cls.ID)
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})
}
