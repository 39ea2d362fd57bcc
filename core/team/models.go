package team

import (
	"github.com/trezcool/projectgl/core/user"
)

// Publication status of a team.
const (
	StatusNone       = "none"
	StatusPrepublish = "prepublish"
	StatusPublish    = "publish"
)

// Criteria are the constraints a generated team list had to respect.
type Criteria struct {
	ID                  int     `json:"id"`
	MinAverageThreshold float64 `json:"minAverageThreshold"`
	NumberOfBachelor    int     `json:"numberOfBachelor"`
	NumberOfGirls       int     `json:"numberOfGirls"`
	NumberOfTeams       int     `json:"numberOfTeams"`
}

type Team struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Status     string      `json:"status"`
	Supervisor user.User   `json:"supervisor"`
	Users      []user.User `json:"users"`
	Criteria   Criteria    `json:"criteria"`
	Validated  bool        `json:"validated"`
}

// Average is the mean past grade of the team members.
func (t Team) Average() float64 {
	if len(t.Users) == 0 {
		return 0
	}
	var sum float64
	for _, u := range t.Users {
		sum += u.GradePast
	}
	return sum / float64(len(t.Users))
}

// Has reports whether userID is a member of the team.
func (t Team) Has(userID int) bool {
	for _, u := range t.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Response is the team payload sent by the backend.
type Response struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Status     string          `json:"status"`
	Supervisor user.Response   `json:"supervisor"`
	Users      []user.Response `json:"users"`
	Validated  bool            `json:"validated"`
	Criteria   Criteria        `json:"criteria"`
}

func (r Response) Team() Team {
	supervisor, _ := r.Supervisor.User(false)
	return Team{
		ID:         r.ID,
		Name:       r.Name,
		Status:     r.Status,
		Supervisor: supervisor,
		Users:      user.FormatResponses(r.Users),
		Criteria:   r.Criteria,
		Validated:  r.Validated,
	}
}

func FormatResponses(resps []Response) []Team {
	teams := make([]Team, 0, len(resps))
	for _, r := range resps {
		teams = append(teams, r.Team())
	}
	return teams
}

// GenerateRequest asks the backend to build teams from the imported students.
type GenerateRequest struct {
	NbTeams             int     `json:"nbTeams" validate:"gt=0"`
	NbBachelor          int     `json:"nbBachelor" validate:"gte=0"`
	NbGirls             int     `json:"nbGirls" validate:"gte=0"`
	MinAverageThreshold float64 `json:"minAverageThreshold" validate:"gte=0,lte=20"`
}

// Order is the presentation running order of a team during a sprint.
type Order struct {
	TeamID   int   `json:"teamId"`
	SprintID int   `json:"sprintId"`
	Order    []int `json:"order"`
}
