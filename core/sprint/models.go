package sprint

import (
	"time"

	"github.com/trezcool/projectgl/core/user"
)

// How a sprint ends.
const (
	EndTypeNormal = "NORMAL_SPRINT"
	EndTypeFinal  = "FINAL_SPRINT"
	EndTypeUnend  = "UNEND_SPRINT"
)

type Sprint struct {
	ID        int       `json:"id,omitempty"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required,gtfield=StartDate"`
	EndType   string    `json:"endType" validate:"required"`
}

// IsCurrent reports whether now falls within the sprint.
func (s Sprint) IsCurrent(now time.Time) bool {
	return !now.Before(s.StartDate) && now.Before(s.EndDate)
}

// Current returns the sprint running at now, if any.
func Current(sprints []Sprint, now time.Time) (Sprint, bool) {
	for _, s := range sprints {
		if s.IsCurrent(now) {
			return s, true
		}
	}
	return Sprint{}, false
}

// TeamRef references a team by id.
type TeamRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// Ref references a sprint by id.
type Ref struct {
	ID int `json:"id"`
}

// Post is a titled message attached to a team and a sprint: comments from the
// supervising staff or feedbacks to the team.
type Post struct {
	ID      int        `json:"id,omitempty"`
	Title   string     `json:"title" validate:"required"`
	Content string     `json:"content" validate:"required"`
	Emitter user.Ref   `json:"emitter"`
	Team    TeamRef    `json:"team"`
	Date    *time.Time `json:"date,omitempty"`
	Sprint  Ref        `json:"sprint"`
}

type (
	Comment  = Post
	Feedback = Post
)
