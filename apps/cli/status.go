package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pterm/pterm"

	"github.com/trezcool/projectgl/core/user"
)

func (cli *commandLine) status(ctx context.Context, restored <-chan error) error {
	// a rejected credential is already logged out
	if err := waitRestored(ctx, restored); err != nil {
		fmt.Fprintln(cli.out, pterm.Warning.Sprint("The stored credential was rejected"))
	}

	if !cli.session.IsAuthenticated() {
		fmt.Fprintln(cli.out, pterm.Info.Sprint("Not signed in"))
		return nil
	}

	usr, _ := cli.session.User()
	token, _ := cli.creds.Get(cli.credKey)
	data := pterm.TableData{
		{"User", fmt.Sprintf("%s <%s>", usr.FullName(), usr.Email)},
		{"Roles", user.FormatRoles(usr.Roles)},
		{"Expires", tokenExpiry(token, time.Now())},
	}
	table, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, pterm.DefaultSection.Sprint("Signed in"))
	fmt.Fprintln(cli.out, table)
	return nil
}

func waitRestored(ctx context.Context, restored <-chan error) error {
	select {
	case err := <-restored:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tokenExpiry reads the expiry of a JWT credential without verifying it. The backend
// is the one to check signatures.
func tokenExpiry(token string, now time.Time) string {
	var claims jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil {
		return "unknown"
	}
	if claims.ExpiresAt == 0 {
		return "never"
	}
	exp := time.Unix(claims.ExpiresAt, 0)
	if exp.Before(now) {
		return exp.Format(time.RFC1123) + " (expired)"
	}
	return exp.Format(time.RFC1123)
}
