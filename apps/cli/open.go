package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"

	"github.com/trezcool/projectgl/apps/views"
	"github.com/trezcool/projectgl/core/nav"
)

var errSignedOut = errors.New("signed out by the backend, please login again")

// open navigates to p like the portal does and prints the page it ends on.
func (cli *commandLine) open(ctx context.Context, restored <-chan error, p string, sprintID int) error {
	// failures log the session out, the guard then sends to login
	_ = waitRestored(ctx, restored)

	if sprintID > 0 {
		cli.session.SetSelectedSprintID(sprintID)
	}

	loc, err := cli.router.Navigate(ctx, p)
	if err != nil {
		return errors.Wrapf(err, "navigating to %s", p)
	}
	for _, step := range loc.Trail {
		reason := step.Outcome.String()
		if step.Outcome == nav.Permitted {
			reason = "route redirect"
		}
		fmt.Fprintln(cli.out, pterm.Warning.Sprintf("%s -> %s: %s", step.From, step.To, reason))
	}

	page, err := views.Build(ctx, cli.views, loc.Entry)
	if loc.Path != nav.LoginPath && !cli.session.IsAuthenticated() {
		return errSignedOut
	}
	if err != nil {
		return errors.Wrapf(err, "building %s", loc.Path)
	}
	return cli.render(page)
}

func (cli *commandLine) render(page views.Page) error {
	fmt.Fprintln(cli.out, pterm.DefaultSection.Sprint(page.Title))

	switch page.Form {
	case views.FormLogin:
		fmt.Fprintln(cli.out, pterm.Info.Sprint("Run: login -email EMAIL"))
	case views.FormSprint:
		fmt.Fprintln(cli.out, pterm.Info.Sprint("Pick a sprint with: open -path PATH -sprint ID"))
	}

	if page.IsEmpty() {
		if page.Empty != "" {
			fmt.Fprintln(cli.out, page.Empty)
		}
		return nil
	}

	var hasHeader bool
	for _, c := range page.Columns {
		hasHeader = hasHeader || c != ""
	}
	header := page.Columns
	if len(page.Actions) > 0 {
		header = append(append([]string(nil), header...), "Action")
	}

	data := make(pterm.TableData, 0, len(page.Rows)+1)
	if hasHeader {
		data = append(data, header)
	}
	for i, row := range page.Rows {
		if len(page.Actions) > 0 {
			var cell string
			if a, ok := page.Actions[i]; ok {
				cell = fmt.Sprintf("%s (POST %s)", a.Label, a.Path)
			}
			row = append(append([]string(nil), row...), cell)
		}
		data = append(data, row)
	}

	table, err := pterm.DefaultTable.WithHasHeader(hasHeader).WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, table)
	return nil
}
