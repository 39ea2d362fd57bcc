// Package nav holds the client's route table and the guard deciding every transition
// between its routes.
package nav

import (
	"path"
	"strings"

	"github.com/trezcool/projectgl/core/session"
	"github.com/trezcool/projectgl/core/user"
)

const (
	HomePath  = "/"
	LoginPath = session.LoginPath
)

// Route is a route definition. Child paths are relative to their parent unless they
// start with a slash. Roles restrict the route, and its children that declare none, to
// users holding at least one of them.
type Route struct {
	Path     string
	Name     string
	Roles    []user.Role
	Redirect string
	Children []Route
}

// Entry is a flattened Route of a Table.
type Entry struct {
	Path     string
	Name     string
	Roles    []user.Role // nil when open to any authenticated user
	Redirect string
	// CatchAll is set on the entry returned for paths the table does not know.
	CatchAll bool
}

// Restricted reports whether the entry carries a role allow-list.
func (e Entry) Restricted() bool {
	return len(e.Roles) > 0
}

// Table resolves paths to entries. Matching ignores case, trailing slashes, the query
// and the fragment.
type Table struct {
	entries  map[string]Entry
	paths    []string
	fallback string
}

// NewTable flattens routes. Unknown paths redirect to fallback. When two definitions
// share a path the later one wins, which lets a parent declare an empty-path child.
func NewTable(routes []Route, fallback string) *Table {
	t := &Table{entries: make(map[string]Entry), fallback: Clean(fallback)}
	t.add(HomePath, nil, routes)
	return t
}

func (t *Table) add(parent string, roles []user.Role, routes []Route) {
	for _, r := range routes {
		full := r.Path
		if !strings.HasPrefix(full, "/") {
			full = path.Join(parent, full)
		}
		full = Clean(full)

		effective := roles
		if len(r.Roles) > 0 {
			effective = r.Roles
		}

		key := strings.ToLower(full)
		if _, ok := t.entries[key]; !ok {
			t.paths = append(t.paths, full)
		}
		t.entries[key] = Entry{
			Path:     full,
			Name:     r.Name,
			Roles:    effective,
			Redirect: r.Redirect,
		}
		t.add(full, effective, r.Children)
	}
}

// Match returns the entry registered for p, if any.
func (t *Table) Match(p string) (Entry, bool) {
	e, ok := t.entries[strings.ToLower(Clean(p))]
	return e, ok
}

// Resolve returns the entry for p, or the catch-all entry redirecting to the fallback.
func (t *Table) Resolve(p string) Entry {
	if e, ok := t.Match(p); ok {
		return e
	}
	return Entry{Path: Clean(p), Redirect: t.fallback, CatchAll: true}
}

// Paths lists the registered paths in definition order.
func (t *Table) Paths() []string {
	return append([]string(nil), t.paths...)
}

// Clean drops the query, the fragment and any trailing slash of p.
func Clean(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return HomePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// AppRoutes returns the routes of the platform client.
func AppRoutes() []Route {
	return []Route{
		{Path: "/profile", Name: "Profile"},
		{Path: HomePath, Name: "home"},
		{Path: LoginPath, Name: "Connexion"},
		{
			Path: "/notation",
			Name: "Notation",
			Children: []Route{
				{Path: "project", Name: "Projet", Roles: []user.Role{user.RoleSupervisingStaff, user.RoleTechnicalCoach}},
				{Path: "bm", Name: "BonusMalus", Roles: []user.Role{user.RoleSupervisingStaff, user.RoleStudent}},
				{
					Path:     "oral",
					Name:     "Oral",
					Redirect: "/notation",
					Children: []Route{
						{
							Path: "indiv",
							Name: "Individuelle",
							Roles: []user.Role{
								user.RoleSupervisingStaff,
								user.RoleTechnicalCoach,
								user.RoleOptionLeader,
								user.RoleUEReferent,
							},
						},
						{Path: "teams", Name: "Equipes"},
						{Path: "runningOrder", Name: "Ordre de passage"},
					},
				},
			},
		},
		{Path: "/teams", Name: "Les équipes"},
		{
			Path:  "/preparation",
			Name:  "Préparation",
			Roles: []user.Role{user.RoleOptionLeader, user.RoleUEReferent},
			Children: []Route{
				{Path: "create", Name: "Création liste"},
				{Path: "import", Name: "Importer étudiants"},
				{Path: "config", Name: "Configuration équipes"},
				{Path: "preview", Name: "Visualisation"},
				{Path: "sprint", Name: "Sprint"},
				{Path: "gradescale", Name: "Echelle de notes"},
			},
		},
		{
			Path: "/flag",
			Name: "Signalement",
			Children: []Route{
				{Path: "flagInstanciate", Name: "Effectuer un signalement", Roles: []user.Role{user.RoleSupervisingStaff, user.RoleStudent}},
				{Path: "flagView", Name: "Affichage des signalements", Roles: []user.Role{user.RoleStudent}},
				{Path: "flagViewPL", Name: "Action des signalements", Roles: []user.Role{user.RoleSupervisingStaff, user.RoleUEReferent}},
			},
		},
		{Path: "/notification", Name: "Notification"},
	}
}

// NewAppTable returns the table of AppRoutes, sending unknown paths home.
func NewAppTable() *Table {
	return NewTable(AppRoutes(), HomePath)
}
