package flag

import (
	"time"

	"github.com/trezcool/projectgl/core/team"
	"github.com/trezcool/projectgl/core/user"
)

// Flag is a request to switch members between two teams.
type Flag struct {
	ID       int        `json:"id,omitempty"`
	User     user.User  `json:"user"`
	Team1    team.Team  `json:"team1"`
	Team2    team.Team  `json:"team2"`
	Comment  string     `json:"comment" validate:"required"`
	Datetime *time.Time `json:"datetime,omitempty"`
}

// UserFlag is the stance of one member of a flagged team.
type UserFlag struct {
	ID             int       `json:"id,omitempty"`
	Flag           Flag      `json:"flag"`
	User           user.User `json:"user"`
	TeamSwitched   bool      `json:"teamSwitched"`
	Validated      *bool     `json:"validated"`
	CanceledString *string   `json:"canceledString"`
}

// NewUserFlag is sent to create the user flags of a flag.
type NewUserFlag struct {
	User         user.Ref `json:"userId"`
	Flag         Ref      `json:"flagId"`
	TeamSwitched bool     `json:"teamSwitched"`
}

type Ref struct {
	ID int `json:"id"`
}

// UserFlags builds the user flags of f: one per member of both teams, flagged as
// switched when listed in changed.
func UserFlags(f Flag, changed []user.User) []NewUserFlag {
	isChanged := make(map[int]bool, len(changed))
	for _, u := range changed {
		isChanged[u.ID] = true
	}
	ufs := make([]NewUserFlag, 0, len(f.Team1.Users)+len(f.Team2.Users))
	for _, t := range []team.Team{f.Team1, f.Team2} {
		for _, u := range t.Users {
			ufs = append(ufs, NewUserFlag{
				User:         user.Ref{ID: u.ID},
				Flag:         Ref{ID: f.ID},
				TeamSwitched: isChanged[u.ID],
			})
		}
	}
	return ufs
}
