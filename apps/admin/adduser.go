package main

import (
	"context"
	"fmt"

	"github.com/dkasongo/darasa/core"
	"github.com/dkasongo/darasa/core/user"
)

// addUser creates a web-variant account.
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	roles := []string{user.RoleTeacher}
	if isAdmin {
		roles = user.AllRoles
	}
	nu := user.NewUser{
		Name:            uname,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           roles,
	}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	usr, err := cli.usrSvc.Create(context.Background(), nu)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "User %s created (id=%d)\n", usr.Username, usr.ID)
	return nil
}
