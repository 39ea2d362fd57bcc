package grade

import (
	"github.com/trezcool/projectgl/core/sprint"
	"github.com/trezcool/projectgl/core/user"
)

// Bonus/malus statuses.
const (
	BonusMalusPending   = "PENDING"
	BonusMalusValidated = "VALIDATED"
)

// Evaluation statuses.
const (
	EvaluationPending    = "PENDING"
	EvaluationInProgress = "IN_PROGRESS"
	EvaluationCompleted  = "COMPLETED"
)

// Detail is a graded criterion of a category. ID and Description are only set by the
// backend.
type Detail struct {
	ID          int     `json:"id,omitempty"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description,omitempty"`
	Mark        float64 `json:"mark"`
}

type Category struct {
	ID          int      `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Details     []Detail `json:"details" validate:"dive"`
}

// Scale is a grading scale as uploaded during preparation.
type Scale struct {
	Name       string     `json:"name" validate:"required"`
	Categories []Category `json:"categories" validate:"dive"`
}

// Type is a grade type known to the backend.
type Type struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SubGrade struct {
	ID        int           `json:"id"`
	Value     float64       `json:"value"`
	Type      string        `json:"type"`
	Status    string        `json:"status"`
	Sprint    sprint.Sprint `json:"sprint"`
	User      user.User     `json:"user"`
	GradeType Type          `json:"gradeType"`
}

type Evaluation struct {
	ID        int       `json:"id"`
	Value     float64   `json:"value"`
	Status    string    `json:"status"`
	SubGrade  SubGrade  `json:"subGrade"`
	Evaluator user.User `json:"evaluator"`
}

// TeamGrade is the grade an evaluator gave a team on one detail during a sprint.
type TeamGrade struct {
	TeamID      int     `json:"teamId"`
	SprintID    int     `json:"sprintId"`
	DetailID    int     `json:"detailId"`
	EvaluatorID int     `json:"evaluatorId"`
	Grade       float64 `json:"grade"`
}

// UserGrade is the individual oral grade an evaluator gave a student during a sprint.
type UserGrade struct {
	ID          int     `json:"id,omitempty"`
	UserID      int     `json:"userId"`
	SprintID    int     `json:"sprintId"`
	EvaluatorID int     `json:"evaluatorId"`
	Grade       float64 `json:"grade"`
}

// StudentTeamGrade is the grade a team of students gave another team. Grade is nil
// until given.
type StudentTeamGrade struct {
	TeamNotingID int      `json:"teamNotingId"`
	TeamToNoteID int      `json:"teamToNoteId"`
	SprintID     int      `json:"sprintId"`
	Grade        *float64 `json:"grade"`
}

// Average returns the mean of the grades of ugs, 0 for none.
func Average(ugs []UserGrade) float64 {
	if len(ugs) == 0 {
		return 0
	}
	var total float64
	for _, ug := range ugs {
		total += ug.Grade
	}
	return total / float64(len(ugs))
}

type Project struct {
	ID        int           `json:"id"`
	Value     float64       `json:"value"`
	Validated bool          `json:"validated"`
	Sprint    sprint.Sprint `json:"sprint"`
	User      user.User     `json:"user"`
}

type BonusMalus struct {
	ID           int     `json:"id,omitempty"`
	Value        float64 `json:"value" validate:"gte=-4,lte=4"`
	Comment      string  `json:"comment"`
	Status       string  `json:"status"`
	AttributedTo int     `json:"attributedTo"`
	AttributedBy int     `json:"attributedBy"`
	TeamID       int     `json:"teamId"`
	SprintID     int     `json:"sprintId"`
	IsUnlimited  bool    `json:"unlimited"`
}

// Total sums the values of bms.
func Total(bms []BonusMalus) float64 {
	var total float64
	for _, bm := range bms {
		total += bm.Value
	}
	return total
}
