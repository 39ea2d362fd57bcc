// Package views builds the content of every route as plain tables, for the portal and
// the terminal to render.
package views

import (
	"context"
	"time"

	"github.com/trezcool/projectgl/core/nav"
	"github.com/trezcool/projectgl/core/session"
	"github.com/trezcool/projectgl/core/sprint"
	"github.com/trezcool/projectgl/services/api"
)

// Forms a page may carry.
const (
	FormLogin  = "login"
	FormSprint = "sprint"
)

type (
	// Page is the content of a route.
	Page struct {
		Title string
		Path  string
		// Form names an input form to render above the table, if any.
		Form    string
		Columns []string
		Rows    [][]string
		// Empty is shown instead of the table when there are no rows.
		Empty string
		// Actions are per-row links, keyed by row index.
		Actions map[int]Action
	}

	// Action is a POST a row offers.
	Action struct {
		Label string
		Path  string
	}

	// Deps are what page builders read from.
	Deps struct {
		Session *session.Store
		API     *apisvc.Services
		Now     func() time.Time
	}

	// Builder builds the page of one route.
	Builder func(ctx context.Context, d *Deps) (Page, error)
)

func (p Page) IsEmpty() bool {
	return len(p.Rows) == 0
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// sprint returns the sprint picked in the session, or else the running one.
func (d *Deps) sprint(ctx context.Context) (sprint.Sprint, bool) {
	if id, ok := d.Session.SelectedSprintID(); ok {
		return d.API.Sprints.ByID(ctx, id)
	}
	return sprint.Current(d.API.Sprints.All(ctx), d.now())
}

var builders = map[string]Builder{
	nav.HomePath:                  home,
	nav.LoginPath:                 login,
	"/profile":                    profile,
	"/teams":                      teams,
	"/notification":               notifications,
	"/notation":                   sprints,
	"/notation/project":           projectGrades,
	"/notation/bm":                bonusMalus,
	"/notation/oral/indiv":        userGrades,
	"/notation/oral/teams":        teamGrades,
	"/notation/oral/runningOrder": runningOrder,
	"/preparation":                students,
	"/preparation/create":         students,
	"/preparation/import":         students,
	"/preparation/config":         teamCriteria,
	"/preparation/preview":        teamMembers,
	"/preparation/sprint":         sprintForm,
	"/preparation/gradescale":     gradeScales,
	"/flag":                       flags,
	"/flag/flagInstanciate":       teams,
	"/flag/flagView":              myUserFlags,
	"/flag/flagViewPL":            flagValidations,
}

// Build builds the page of entry. Routes without content get a page with only a title.
func Build(ctx context.Context, d *Deps, entry nav.Entry) (Page, error) {
	b, ok := builders[entry.Path]
	if !ok {
		return Page{Title: entry.Name, Path: entry.Path}, nil
	}
	page, err := b(ctx, d)
	if err != nil {
		return Page{}, err
	}
	page.Path = entry.Path
	if page.Title == "" {
		page.Title = entry.Name
	}
	return page, nil
}
