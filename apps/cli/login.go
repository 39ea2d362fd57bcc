package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/trezcool/projectgl/core/user"
)

// login signs in and loads the signed in user.
func (cli *commandLine) login(ctx context.Context, email, pwd string) error {
	if _, err := cli.api.Auth.SignIn(ctx, user.LoginRequest{Email: email, Password: pwd}); err != nil {
		return errors.Wrap(err, "signing in")
	}
	if err := cli.session.LoadUser(ctx); err != nil {
		return err
	}
	usr, _ := cli.session.User()
	fmt.Fprintln(cli.out, pterm.Success.Sprintf("Signed in as %s (%s)", usr.FullName(), user.FormatRoles(usr.Roles)))
	return nil
}

func (cli *commandLine) logout() error {
	cli.session.Logout()
	fmt.Fprintln(cli.out, pterm.Success.Sprint("Signed out"))
	return nil
}
