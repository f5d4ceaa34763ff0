package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/kosoa/apps/api/echo"
	"github.com/trezcool/kosoa/core/user"
)

func Test_userApi_login(t *testing.T) {
	usr := createUser(t, user.RoleStudent)

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
	}{
		{name: "valid credentials", body: echoapi.LoginRequest{Username: usr.Username, Password: "S3cretPwd!"}, wantCode: http.StatusOK},
		{name: "login by email", body: echoapi.LoginRequest{Username: usr.Email, Password: "S3cretPwd!"}, wantCode: http.StatusOK},
		{name: "wrong password", body: echoapi.LoginRequest{Username: usr.Username, Password: "nope"}, wantCode: http.StatusBadRequest},
		{name: "unknown user", body: echoapi.LoginRequest{Username: "who", Password: "S3cretPwd!"}, wantCode: http.StatusBadRequest},
		{name: "missing fields", body: echoapi.LoginRequest{}, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", marshallObj(t, tt.body))
			do(req, rec)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusOK {
				var resp echoapi.LoginResponse
				decodeBody(t, rec, &resp)
				assert.NotEmpty(t, resp.Token)
			}
		})
	}

	t.Run("deactivated account", func(t *testing.T) {
		inactive := createUser(t)
		isActive := false
		_, err := usrSvc.Update(inactive.ID, user.UpdateUser{IsActive: &isActive})
		require.NoError(t, err)

		req, rec := newRequest(http.MethodPost, "/v1/users/login",
			marshallObj(t, echoapi.LoginRequest{Username: inactive.Username, Password: "S3cretPwd!"}))
		do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func Test_userApi_tokenRefresh(t *testing.T) {
	usr := createUser(t, user.RoleStudent)
	token := getToken(t, usr)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", token)
	do(req, rec)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp echoapi.LoginResponse
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Token)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		do(req, rec)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func Test_userApi_register(t *testing.T) {
	admin := createUser(t, user.RoleAdmin)
	student := createUser(t, user.RoleStudent)

	body := marshallObj(t, user.NewUser{
		Name:            "New Kid",
		Username:        "newkid01",
		Email:           "newkid@test.cd",
		Password:        "V3ryS3cret!",
		PasswordConfirm: "V3ryS3cret!",
		Roles:           user.StudentRoles,
	})

	t.Run("admin required", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, student), body)
		do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin creates user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		do(req, rec)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created user.User
		decodeBody(t, rec, &created)
		assert.Equal(t, "newkid01", created.Username)
		assert.True(t, created.IsActive)
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		do(req, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_userApi_detail(t *testing.T) {
	admin := createUser(t, user.RoleAdmin)
	usr := createUser(t, user.RoleStudent)
	other := createUser(t, user.RoleStudent)

	path := "/v1/users/" + usr.UID

	t.Run("self retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, usr))
		do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)
		var got user.User
		decodeBody(t, rec, &got)
		assert.Equal(t, usr.UID, got.UID)
	})

	t.Run("admin retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, admin))
		do(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("another user's account reads as missing", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, path, getToken(t, other))
		do(req, rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("self update cannot touch roles", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{"roles": user.AllRoles})
		req, rec := newAuthRequest(http.MethodPut, path, getToken(t, usr), body)
		do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("self update name", func(t *testing.T) {
		body := marshallObj(t, map[string]interface{}{"name": "Renamed"})
		req, rec := newAuthRequest(http.MethodPut, path, getToken(t, usr), body)
		do(req, rec)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got user.User
		decodeBody(t, rec, &got)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("delete is admin-only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, path, getToken(t, usr))
		do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		req, rec = newAuthRequest(http.MethodDelete, path, getToken(t, admin))
		do(req, rec)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.UID, getToken(t, admin))
		do(req, rec)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
