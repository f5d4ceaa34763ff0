package user_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/user"
	emailsvc "github.com/trezcool/kosoa/services/email"
	inmemdb "github.com/trezcool/kosoa/storage/database/inmem"
)

func newSvc() user.Service {
	conf := &core.Config{AppName: "Kosoa", TestMode: true}
	return user.NewService(inmemdb.NewUserRepository(inmemdb.NewDB()), emailsvc.NewConsoleServiceMock(conf), conf)
}

func TestNewUser_Validate_passwordPolicy(t *testing.T) {
	svc := newSvc()

	tests := []struct {
		name    string
		pwd     string
		wantErr bool
	}{
		{name: "valid", pwd: "S3cretPwd!"},
		{name: "too short", pwd: "S3cr!", wantErr: true},
		{name: "whitespace", pwd: "S3cret Pwd!", wantErr: true},
		{name: "all numeric", pwd: "12345678", wantErr: true},
		{name: "no complexity", pwd: "secretpassword", wantErr: true},
		{name: "similar to username", pwd: "Johnsmith77!", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := user.NewUser{
				Name:            "John Smith",
				Username:        "johnsmith77",
				Email:           "john@test.cd",
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := nu.Validate(svc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("username or email required", func(t *testing.T) {
		nu := user.NewUser{Name: "No Handle", Password: "S3cretPwd!", PasswordConfirm: "S3cretPwd!"}
		assert.Error(t, nu.Validate(svc))
	})
}

func TestService_Create(t *testing.T) {
	svc := newSvc()

	usr, err := svc.Create(user.NewUser{
		Name:     "Jane Doe",
		Username: "janedoe",
		Email:    "jane@test.cd",
		Password: "S3cretPwd!",
		Roles:    user.TeacherRoles,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.UID)
	assert.True(t, usr.IsActive)
	assert.True(t, usr.IsTeacher())
	assert.False(t, usr.IsAdmin())
	assert.NoError(t, usr.CheckPassword("S3cretPwd!"))
	assert.Error(t, usr.CheckPassword("wrong"))

	t.Run("uniqueness", func(t *testing.T) {
		err := svc.CheckUniqueness("janedoe", "other@test.cd")
		assert.Error(t, err)
		err = svc.CheckUniqueness("other", "jane@test.cd")
		assert.Error(t, err)
		err = svc.CheckUniqueness("other", "other@test.cd")
		assert.NoError(t, err)
	})

	t.Run("lookup by username or email", func(t *testing.T) {
		got, err := svc.GetByUsernameOrEmail("janedoe")
		require.NoError(t, err)
		assert.Equal(t, usr.UID, got.UID)

		got, err = svc.GetByUsernameOrEmail("jane@test.cd")
		require.NoError(t, err)
		assert.Equal(t, usr.UID, got.UID)

		_, err = svc.GetByUsernameOrEmail("ghost")
		assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	})
}

func TestService_Update(t *testing.T) {
	svc := newSvc()

	usr, err := svc.Create(user.NewUser{
		Name: "Old Name", Username: "someuser", Email: "some@test.cd", Password: "S3cretPwd!",
	})
	require.NoError(t, err)

	isActive := false
	updated, err := svc.Update(usr.ID, user.UpdateUser{Name: "New Name", IsActive: &isActive})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.False(t, updated.IsActive)

	// unset fields keep their values
	assert.Equal(t, usr.Username, updated.Username)
	assert.Equal(t, usr.Email, updated.Email)
}

func TestMaxRolePriority(t *testing.T) {
	assert.Greater(t, user.MaxRolePriority(user.AllRoles), user.MaxRolePriority(user.TeacherRoles))
	assert.Greater(t, user.MaxRolePriority(user.TeacherRoles), user.MaxRolePriority(nil))
	assert.Equal(t, user.MaxRolePriority(user.StudentRoles), user.MaxRolePriority([]string{user.RoleStudent}))
}
