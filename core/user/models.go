package user

import (
	"strings"

	"github.com/pkg/errors"
)

// Role tags as sent by the backend in a profile's authorities.
type Role string

const (
	RoleSupervisingStaff Role = "SS"
	RoleUEReferent       Role = "PL"
	RoleOptionLeader     Role = "OL"
	RoleStudent          Role = "OS"
	RoleTechnicalCoach   Role = "TC"

	// RoleDefault is given to any authority outside of AllRoles.
	RoleDefault = RoleStudent

	GenderMale   = "male"
	GenderFemale = "female"
)

var (
	ErrUnknownRole = errors.New("unknown role")

	AllRoles = []Role{
		RoleSupervisingStaff,
		RoleUEReferent,
		RoleOptionLeader,
		RoleStudent,
		RoleTechnicalCoach,
	}

	roleLabels = map[Role]string{
		RoleSupervisingStaff: "Equipe des encadrants",
		RoleOptionLeader:     "Responsable d'option",
		RoleStudent:          "Etudiant",
		RoleUEReferent:       "Référent UE",
		RoleTechnicalCoach:   "Coach Technique",
	}
)

// ParseRole returns the Role matching s exactly.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLabels[r]; !ok {
		return "", errors.Wrapf(ErrUnknownRole, "%q", s)
	}
	return r, nil
}

func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// FormatRoles joins role labels for display.
func FormatRoles(roles []Role) string {
	if len(roles) == 0 {
		return "Non défini"
	}
	labels := make([]string, 0, len(roles))
	for _, r := range roles {
		labels = append(labels, r.Label())
	}
	return strings.Join(labels, ", ")
}

type User struct {
	ID         int     `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Email      string  `json:"email"`
	Roles      []Role  `json:"roles"`
	Gender     string  `json:"gender"`
	Option     string  `json:"option"`
	IsBachelor bool    `json:"isBachelor"`
	GradePast  float64 `json:"gradePast"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasAnyRole reports whether u has at least one of roles.
func (u User) HasAnyRole(roles ...Role) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Authority is a single granted authority of a Response.
type Authority struct {
	Authority string `json:"authority"`
}

// Response is the user payload sent by the backend.
type Response struct {
	ID                    int         `json:"id"`
	FirstName             string      `json:"firstName"`
	LastName              string      `json:"lastName"`
	Email                 string      `json:"email"`
	Username              string      `json:"username"`
	Gender                string      `json:"gender"`
	Option                string      `json:"option"`
	Bachelor              bool        `json:"bachelor"`
	Authorities           []Authority `json:"authorities"`
	GradePast             float64     `json:"gradePast"`
	AccountNonExpired     bool        `json:"accountNonExpired"`
	AccountNonLocked      bool        `json:"accountNonLocked"`
	CredentialsNonExpired bool        `json:"credentialsNonExpired"`
	Enabled               bool        `json:"enabled"`
}

// User normalizes the Response. Unknown authorities become RoleDefault, unless strict
// is set, in which case ErrUnknownRole is returned.
func (r Response) User(strict bool) (User, error) {
	roles := make([]Role, 0, len(r.Authorities))
	for _, a := range r.Authorities {
		role, err := ParseRole(a.Authority)
		if err != nil {
			if strict {
				return User{}, errors.Wrapf(err, "user %d", r.ID)
			}
			role = RoleDefault
		}
		roles = append(roles, role)
	}

	gender := GenderFemale
	if r.Gender == GenderMale {
		gender = GenderMale
	}

	return User{
		ID:         r.ID,
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Roles:      roles,
		Gender:     gender,
		Option:     r.Option,
		IsBachelor: r.Bachelor,
		GradePast:  r.GradePast,
	}, nil
}

// FormatResponses normalizes a list of responses leniently.
func FormatResponses(resps []Response) []User {
	users := make([]User, 0, len(resps))
	for _, r := range resps {
		usr, _ := r.User(false)
		users = append(users, usr)
	}
	return users
}

// Ref references a User by id only, as some requests expect.
type Ref struct {
	ID int `json:"id"`
}
