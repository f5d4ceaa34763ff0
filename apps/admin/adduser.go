package main

import (
	"github.com/pkg/errors"

	"github.com/trezcool/kosoa/core"
	"github.com/trezcool/kosoa/core/user"
)

// addUser creates a user.User, or resets the password of an existing one.
func (cli *commandLine) addUser(name, uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	lookup := uname
	if lookup == "" {
		lookup = email
	}
	usr, err := cli.usrSvc.GetByUsernameOrEmail(lookup)
	if err == nil {
		if isAdmin {
			isActive := true
			if _, err = cli.usrSvc.Update(usr.ID, user.UpdateUser{Roles: user.AllRoles, IsActive: &isActive}); err != nil {
				return err
			}
		}
		_, err = cli.usrSvc.SetPassword(usr, pwd)
		return err
	}
	if errors.Cause(err) != user.ErrNotFound {
		return err
	}

	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	}
	if isAdmin {
		nu.Roles = user.AllRoles
	}
	if err = nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	_, err = cli.usrSvc.Create(nu)
	return err
}
