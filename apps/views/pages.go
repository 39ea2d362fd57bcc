package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/flag"
	grades "github.com/trezcool/projectgl/core/grade"
	"github.com/trezcool/projectgl/core/notification"
	"github.com/trezcool/projectgl/core/team"
	"github.com/trezcool/projectgl/core/user"
)

const (
	EmptyNoSprint = "Aucun sprint en cours"
	EmptyNoTeam   = "Vous n'appartenez à aucune équipe"
)

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}

func grade(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func names(users []user.User) string {
	ns := make([]string, 0, len(users))
	for _, u := range users {
		ns = append(ns, u.FullName())
	}
	return strings.Join(ns, ", ")
}

func home(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Title: "Accueil", Columns: []string{"", ""}}
	usr, ok := d.Session.User()
	if !ok {
		page.Empty = "Chargement du profil..."
		return page, nil
	}

	page.Title = "Bonjour " + usr.FirstName
	page.Rows = append(page.Rows, []string{"Rôles", user.FormatRoles(usr.Roles)})
	if sp, ok := d.sprint(ctx); ok {
		page.Rows = append(page.Rows, []string{"Sprint", fmt.Sprintf("%d (%s - %s)", sp.ID, core.FormatDate(sp.StartDate), core.FormatDate(sp.EndDate))})
	} else {
		page.Rows = append(page.Rows, []string{"Sprint", EmptyNoSprint})
	}
	if t, ok := d.API.Teams.Of(ctx, usr.ID); ok {
		page.Rows = append(page.Rows, []string{"Équipe", t.Name})
	}
	unread := notification.Unread(d.API.Notifications.ByUser(ctx, usr.ID))
	page.Rows = append(page.Rows, []string{"Notifications non lues", strconv.Itoa(unread)})
	return page, nil
}

func login(ctx context.Context, d *Deps) (Page, error) {
	return Page{Title: "Connexion", Form: FormLogin}, nil
}

func profile(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Title: "Profil", Columns: []string{"", ""}}
	usr, ok := d.Session.User()
	if !ok {
		page.Empty = "Profil indisponible"
		return page, nil
	}
	page.Rows = [][]string{
		{"Prénom", usr.FirstName},
		{"Nom", usr.LastName},
		{"Email", usr.Email},
		{"Rôles", user.FormatRoles(usr.Roles)},
		{"Genre", usr.Gender},
		{"Option", usr.Option},
		{"Bachelor", yesNo(usr.IsBachelor)},
		{"Moyenne", grade(usr.GradePast)},
	}
	return page, nil
}

func teams(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Title:   "Les équipes",
		Columns: []string{"Équipe", "Encadrant", "Membres", "Moyenne"},
		Empty:   "Aucune équipe",
	}
	for _, t := range d.API.Teams.All(ctx) {
		page.Rows = append(page.Rows, []string{t.Name, t.Supervisor.FullName(), strconv.Itoa(len(t.Users)), grade(t.Average())})
	}
	return page, nil
}

func teamMembers(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Columns: []string{"Équipe", "Étudiant", "Genre", "Bachelor", "Moyenne"},
		Empty:   "Aucune équipe",
	}
	for _, t := range d.API.Teams.All(ctx) {
		for _, u := range t.Users {
			page.Rows = append(page.Rows, []string{t.Name, u.FullName(), u.Gender, yesNo(u.IsBachelor), grade(u.GradePast)})
		}
	}
	return page, nil
}

func teamCriteria(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Columns: []string{"Équipe", "Statut", "Filles", "Bachelors", "Moyenne min.", "Validée"},
		Empty:   "Aucune équipe générée",
	}
	for _, t := range d.API.Teams.All(ctx) {
		c := t.Criteria
		page.Rows = append(page.Rows, []string{
			t.Name, t.Status, strconv.Itoa(c.NumberOfGirls), strconv.Itoa(c.NumberOfBachelor), grade(c.MinAverageThreshold), yesNo(t.Validated),
		})
	}
	return page, nil
}

func students(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Columns: []string{"Nom", "Prénom", "Genre", "Option", "Bachelor", "Moyenne"},
		Empty:   "Aucun étudiant importé",
	}
	for _, u := range d.API.Users.Students(ctx) {
		page.Rows = append(page.Rows, []string{u.LastName, u.FirstName, u.Gender, u.Option, yesNo(u.IsBachelor), grade(u.GradePast)})
	}
	return page, nil
}

func sprints(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Columns: []string{"Sprint", "Début", "Fin", "Type", "En cours"},
		Empty:   "Aucun sprint",
	}
	now := d.now()
	for _, sp := range d.API.Sprints.All(ctx) {
		page.Rows = append(page.Rows, []string{
			strconv.Itoa(sp.ID), core.FormatDate(sp.StartDate), core.FormatDate(sp.EndDate), sp.EndType, yesNo(sp.IsCurrent(now)),
		})
	}
	return page, nil
}

func sprintForm(ctx context.Context, d *Deps) (Page, error) {
	page, err := sprints(ctx, d)
	page.Form = FormSprint
	return page, err
}

func gradeScales(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Columns: []string{"Id", "Nom", "Description"},
		Empty:   "Aucune échelle de notes",
	}
	for _, t := range d.API.GradeScales.All(ctx) {
		page.Rows = append(page.Rows, []string{strconv.Itoa(t.ID), t.Name, t.Description})
	}
	return page, nil
}

func projectGrades(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Columns: []string{"Étudiant", "Sprint", "Note", "Validée"},
		Empty:   "Aucune note de projet",
	}
	pgs, err := d.API.ProjectGrades.All(ctx)
	if err != nil {
		return Page{}, err
	}
	for _, pg := range pgs {
		page.Rows = append(page.Rows, []string{pg.User.FullName(), strconv.Itoa(pg.Sprint.ID), grade(pg.Value), yesNo(pg.Validated)})
	}
	return page, nil
}

func bonusMalus(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Columns: []string{"Attribué à", "Valeur", "Commentaire", "Statut"}}
	usr, _ := d.Session.User()
	t, ok := d.API.Teams.Of(ctx, usr.ID)
	if !ok {
		page.Empty = EmptyNoTeam
		return page, nil
	}
	sp, ok := d.sprint(ctx)
	if !ok {
		page.Empty = EmptyNoSprint
		return page, nil
	}

	page.Title = "Bonus/Malus " + t.Name
	page.Empty = "Aucun bonus/malus"
	members := make(map[int]string, len(t.Users))
	for _, u := range t.Users {
		members[u.ID] = u.FullName()
	}
	for _, bm := range d.API.BonusMalus.Team(ctx, t.ID, sp.ID, false) {
		to, ok := members[bm.AttributedTo]
		if !ok {
			to = strconv.Itoa(bm.AttributedTo)
		}
		page.Rows = append(page.Rows, []string{to, grade(bm.Value), bm.Comment, bm.Status})
	}
	return page, nil
}

// userGrades lists the individual oral grades of every student during the sprint.
func userGrades(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Columns: []string{"Équipe", "Étudiant", "Notes", "Moyenne"}, Empty: "Aucune équipe"}
	sp, ok := d.sprint(ctx)
	if !ok {
		page.Empty = EmptyNoSprint
		return page, nil
	}
	for _, t := range d.API.Teams.All(ctx) {
		for _, u := range t.Users {
			ugs := d.API.UserGrades.List(ctx, u.ID, sp.ID)
			avg := "-"
			if len(ugs) > 0 {
				avg = grade(grades.Average(ugs))
			}
			page.Rows = append(page.Rows, []string{t.Name, u.FullName(), strconv.Itoa(len(ugs)), avg})
		}
	}
	return page, nil
}

// teamGrades lists the grades the user gave every team during the sprint, one row per
// detail.
func teamGrades(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Columns: []string{"Équipe", "Critère", "Note"}, Empty: "Aucune équipe"}
	sp, ok := d.sprint(ctx)
	if !ok {
		page.Empty = EmptyNoSprint
		return page, nil
	}
	details := d.API.Details.All(ctx)
	if len(details) == 0 {
		page.Empty = "Aucun critère de notation"
		return page, nil
	}

	usr, _ := d.Session.User()
	for _, t := range d.API.Teams.All(ctx) {
		for _, dt := range details {
			key := grades.TeamGrade{TeamID: t.ID, SprintID: sp.ID, DetailID: dt.ID, EvaluatorID: usr.ID}
			value := "-"
			if g, ok := d.API.TeamGrades.Get(ctx, key); ok {
				value = grade(g.Grade)
			}
			page.Rows = append(page.Rows, []string{t.Name, dt.Name, value})
		}
	}
	return page, nil
}

func runningOrder(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Columns: []string{"Équipe", "Ordre de passage"}, Empty: "Aucune équipe"}
	sp, ok := d.sprint(ctx)
	if !ok {
		page.Empty = EmptyNoSprint
		return page, nil
	}
	for _, t := range d.API.Teams.All(ctx) {
		order, ok := d.API.TeamOrders.Get(ctx, t.ID, sp.ID)
		if !ok {
			continue
		}
		page.Rows = append(page.Rows, []string{t.Name, orderNames(t, order)})
	}
	return page, nil
}

// orderNames lists the members of t in order, unknown ids as such.
func orderNames(t team.Team, order team.Order) string {
	if len(order.Order) == 0 {
		return "Non défini"
	}
	byID := make(map[int]string, len(t.Users))
	for _, u := range t.Users {
		byID[u.ID] = u.FullName()
	}
	ns := make([]string, 0, len(order.Order))
	for _, id := range order.Order {
		if name, ok := byID[id]; ok {
			ns = append(ns, name)
		} else {
			ns = append(ns, "#"+strconv.Itoa(id))
		}
	}
	return strings.Join(ns, " > ")
}

func notifications(ctx context.Context, d *Deps) (Page, error) {
	page := Page{
		Columns: []string{"Date", "Type", "Description", "Émetteur", "Statut"},
		Empty:   "Aucune notification",
		Actions: map[int]Action{},
	}
	usr, ok := d.Session.User()
	if !ok {
		return page, nil
	}
	for i, n := range d.API.Notifications.ByUser(ctx, usr.ID) {
		status, label := "Lue", "Marquer non lue"
		if n.IsUnread() {
			status, label = "Non lue", "Marquer lue"
		}
		page.Rows = append(page.Rows, []string{core.FormatDate(n.Date), n.Type, n.Description, n.Emitter.FullName(), status})
		page.Actions[i] = Action{Label: label, Path: fmt.Sprintf("/notification/%d/toggle", n.ID)}
	}
	return page, nil
}

func flagRow(f flag.Flag) []string {
	var date string
	if f.Datetime != nil {
		date = core.FormatDate(*f.Datetime)
	}
	return []string{date, f.User.FullName(), f.Team1.Name, f.Team2.Name, f.Comment}
}

var flagColumns = []string{"Date", "Auteur", "Équipe 1", "Équipe 2", "Commentaire"}

func flags(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Columns: flagColumns, Empty: "Aucun signalement"}
	fs, err := d.API.Flags.All(ctx)
	if err != nil {
		return Page{}, err
	}
	for _, f := range fs {
		page.Rows = append(page.Rows, flagRow(f))
	}
	return page, nil
}

func stance(uf flag.UserFlag) string {
	switch {
	case uf.CanceledString != nil && *uf.CanceledString != "":
		return "Annulé: " + *uf.CanceledString
	case uf.Validated == nil:
		return "En attente"
	case *uf.Validated:
		return "Validé"
	default:
		return "Refusé"
	}
}

// myUserFlags lists the flags involving the user's team, with the user's stance.
func myUserFlags(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Columns: append(append([]string(nil), flagColumns...), "Changement d'équipe", "Ma réponse"), Empty: "Aucun signalement"}
	usr, _ := d.Session.User()
	fs, err := d.API.Flags.All(ctx)
	if err != nil {
		return Page{}, err
	}
	for _, f := range fs {
		if !f.Team1.Has(usr.ID) && !f.Team2.Has(usr.ID) {
			continue
		}
		ufs, err := d.API.Flags.UserFlags(ctx, f.ID)
		if err != nil {
			return Page{}, err
		}
		for _, uf := range ufs {
			if uf.User.ID == usr.ID {
				page.Rows = append(page.Rows, append(flagRow(f), yesNo(uf.TeamSwitched), stance(uf)))
			}
		}
	}
	return page, nil
}

// flagValidations lists every flag with whether all involved members validated it.
func flagValidations(ctx context.Context, d *Deps) (Page, error) {
	page := Page{Columns: append(append([]string(nil), flagColumns...), "Tous validés"), Empty: "Aucun signalement"}
	fs, err := d.API.Flags.All(ctx)
	if err != nil {
		return Page{}, err
	}
	for _, f := range fs {
		all, err := d.API.Flags.AllValidated(ctx, f.ID)
		if err != nil {
			return Page{}, err
		}
		page.Rows = append(page.Rows, append(flagRow(f), yesNo(all)))
	}
	return page, nil
}
