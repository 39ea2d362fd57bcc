package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/session"
	"github.com/trezcool/projectgl/services/api"
	"github.com/trezcool/projectgl/services/toast"
	"github.com/trezcool/projectgl/storage"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	session *session.Store
	router  *nav.Router
	api     *apisvc.Services
	views   *views.Deps
	toasts  *toastsvc.Queue
	creds   storage.Storage
	credKey string
	out     io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL           - sign in. The password will be prompted next.")
	fmt.Fprintln(cli.out, "  logout                       - forget the stored credential")
	fmt.Fprintln(cli.out, "  status                       - show who is signed in and until when")
	fmt.Fprintln(cli.out, "  open -path PATH [-sprint ID] - navigate to PATH and print its page")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	defer cli.printToasts()

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginCmd.SetOutput(cli.out)
	loginEmail := loginCmd.String("email", "", "The user's email. The password will be prompted next.")

	openCmd := flag.NewFlagSet("open", flag.ContinueOnError)
	openCmd.SetOutput(cli.out)
	openPath := openCmd.String("path", nav.HomePath, "The route to open, e.g. /teams.")
	openSprint := openCmd.Int("sprint", 0, "The sprint the page is about. Defaults to the running one.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginEmail, string(pwd))
	case "logout":
		return cli.logout()
	case "status":
		return cli.status(ctx, cli.restore(ctx))
	case "open":
		restored := cli.restore(ctx)
		if err := openCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.open(ctx, restored, *openPath, *openSprint)
	default:
		cli.printUsage()
		return errHelp
	}
}

// restore loads the user of the stored credential in the background. The result is
// sent once on the returned channel.
func (cli *commandLine) restore(ctx context.Context) <-chan error {
	res := make(chan error, 1)
	go func() { res <- cli.session.LoadUser(ctx) }()
	return res
}

// printToasts prints the messages the services left for the user.
func (cli *commandLine) printToasts() {
	for _, t := range cli.toasts.Drain() {
		switch t.Level {
		case toastsvc.LevelSuccess:
			fmt.Fprintln(cli.out, pterm.Success.Sprint(t.Message))
		case toastsvc.LevelWarning:
			fmt.Fprintln(cli.out, pterm.Warning.Sprint(t.Message))
		default:
			fmt.Fprintln(cli.out, pterm.Error.Sprint(t.Message))
		}
	}
}
