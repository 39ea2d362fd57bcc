package apisvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/trezcool/projectgl/core/grade"
)

// TeamGradeService handles the grades evaluators give teams, one per detail.
type TeamGradeService struct {
	client *Client
}

func NewTeamGradeService(c *Client) *TeamGradeService {
	return &TeamGradeService{client: c}
}

func teamGradeQuery(g grade.TeamGrade) url.Values {
	return url.Values{
		"teamId":      []string{strconv.Itoa(g.TeamID)},
		"sprintId":    []string{strconv.Itoa(g.SprintID)},
		"detailId":    []string{strconv.Itoa(g.DetailID)},
		"evaluatorId": []string{strconv.Itoa(g.EvaluatorID)},
	}
}

func (s *TeamGradeService) Save(ctx context.Context, g grade.TeamGrade) bool {
	query := teamGradeQuery(g)
	query.Set("grade", strconv.FormatFloat(g.Grade, 'f', -1, 64))
	if err := s.client.do(ctx, http.MethodPut, "/teamGrade", query, nil, nil); err != nil {
		s.client.fail("Error while saving team grade", err)
		return false
	}
	return true
}

// Get returns the grade of key's team, sprint, detail and evaluator. A grade not given
// yet is 0.
func (s *TeamGradeService) Get(ctx context.Context, key grade.TeamGrade) (grade.TeamGrade, bool) {
	var g *grade.TeamGrade
	if err := s.client.get(ctx, "/teamGrade", teamGradeQuery(key), &g); err != nil {
		s.client.fail("Error while fetching team grade", err)
		return grade.TeamGrade{}, false
	}
	if g == nil {
		key.Grade = 0
		return key, true
	}
	return *g, true
}

// UserGradeService handles the individual oral grades of students.
type UserGradeService struct {
	client *Client
}

func NewUserGradeService(c *Client) *UserGradeService {
	return &UserGradeService{client: c}
}

func (s *UserGradeService) Update(ctx context.Context, g grade.UserGrade) bool {
	path := fmt.Sprintf("/userGrade/%d/%d/%d/%s", g.UserID, g.SprintID, g.EvaluatorID, strconv.FormatFloat(g.Grade, 'f', -1, 64))
	if err := s.client.put(ctx, path, nil, nil); err != nil {
		s.client.fail("Error while saving user grade", err)
		return false
	}
	return true
}

// List returns every grade userID received during a sprint, or nil when there are none.
func (s *UserGradeService) List(ctx context.Context, userID, sprintID int) []grade.UserGrade {
	query := sprintQuery(sprintID)
	query.Set("userId", strconv.Itoa(userID))

	var ugs []grade.UserGrade
	if err := s.client.get(ctx, "/userGrade/list", query, &ugs); err != nil {
		s.client.fail("Error while listing user grades", err)
		return nil
	}
	if len(ugs) == 0 {
		return nil
	}
	return ugs
}

func (s *UserGradeService) Get(ctx context.Context, userID, sprintID, evaluatorID int) (grade.UserGrade, bool) {
	query := sprintQuery(sprintID)
	query.Set("userId", strconv.Itoa(userID))
	query.Set("evaluatorId", strconv.Itoa(evaluatorID))

	var ug *grade.UserGrade
	if err := s.client.get(ctx, "/userGrade", query, &ug); err != nil {
		s.client.fail("Error while fetching user grade", err)
		return grade.UserGrade{}, false
	}
	if ug == nil {
		return grade.UserGrade{}, false
	}
	return *ug, true
}

// SubGradeService handles the parts a grade is computed from. Its failures are returned.
type SubGradeService struct {
	client *Client
}

func NewSubGradeService(c *Client) *SubGradeService {
	return &SubGradeService{client: c}
}

func subGradeQuery(userID, sprintID int, gradeType string) url.Values {
	query := sprintQuery(sprintID)
	query.Set("userId", strconv.Itoa(userID))
	query.Set("gradeType", gradeType)
	return query
}

// Update asks the backend to recompute the subgrade of gradeType from its evaluations.
func (s *SubGradeService) Update(ctx context.Context, userID, sprintID int, gradeType string) (grade.SubGrade, error) {
	in := struct {
		UserID    int    `json:"userId"`
		SprintID  int    `json:"sprintId"`
		GradeType string `json:"gradeType"`
	}{userID, sprintID, gradeType}

	var sg grade.SubGrade
	if err := s.client.put(ctx, "/subgrade/update", in, &sg); err != nil {
		s.client.logger.Error("Error while updating subgrade", err)
		return grade.SubGrade{}, err
	}
	return sg, nil
}

func (s *SubGradeService) Get(ctx context.Context, userID, sprintID int, gradeType string) (grade.SubGrade, error) {
	var sg grade.SubGrade
	if err := s.client.get(ctx, "/subgrade", subGradeQuery(userID, sprintID, gradeType), &sg); err != nil {
		s.client.logger.Error("Error while fetching subgrade", err)
		return grade.SubGrade{}, err
	}
	return sg, nil
}

// Evaluation returns the evaluation evaluatorID gave towards a subgrade.
func (s *SubGradeService) Evaluation(ctx context.Context, userID, sprintID int, gradeType string, evaluatorID int) (grade.Evaluation, error) {
	query := subGradeQuery(userID, sprintID, gradeType)
	query.Set("evaluatorId", strconv.Itoa(evaluatorID))

	var ev grade.Evaluation
	if err := s.client.get(ctx, "/subgrade/evaluation", query, &ev); err != nil {
		s.client.logger.Error("Error while fetching evaluation", err)
		return grade.Evaluation{}, err
	}
	return ev, nil
}

type EvaluationService struct {
	client *Client
}

func NewEvaluationService(c *Client) *EvaluationService {
	return &EvaluationService{client: c}
}

// Update sets the value of evaluation id and returns it as saved.
func (s *EvaluationService) Update(ctx context.Context, id int, value float64) (grade.Evaluation, error) {
	path := fmt.Sprintf("/evaluation/update/%d/%s", id, strconv.FormatFloat(value, 'f', -1, 64))
	var ev grade.Evaluation
	if err := s.client.put(ctx, path, nil, &ev); err != nil {
		s.client.logger.Error("Error while updating evaluation", err)
		return grade.Evaluation{}, err
	}
	return ev, nil
}

// StudentTeamGradeService handles the grades teams of students give each other.
type StudentTeamGradeService struct {
	client *Client
}

func NewStudentTeamGradeService(c *Client) *StudentTeamGradeService {
	return &StudentTeamGradeService{client: c}
}

func studentTeamGradePath(notingID, toNoteID, sprintID int) string {
	return fmt.Sprintf("/teamGradeFromStudent/from/%d/to/%d/for/%d", notingID, toNoteID, sprintID)
}

func (s *StudentTeamGradeService) Save(ctx context.Context, notingID, toNoteID, sprintID int, value float64) bool {
	path := studentTeamGradePath(notingID, toNoteID, sprintID) + "/grade/" + strconv.FormatFloat(value, 'f', -1, 64)
	if err := s.client.put(ctx, path, nil, nil); err != nil {
		s.client.fail("Error while saving team grade from students", err)
		return false
	}
	return true
}

// Get returns the grade team notingID gave team toNoteID. Its Grade is nil when none
// was given.
func (s *StudentTeamGradeService) Get(ctx context.Context, notingID, toNoteID, sprintID int) (grade.StudentTeamGrade, bool) {
	var g *grade.StudentTeamGrade
	if err := s.client.get(ctx, studentTeamGradePath(notingID, toNoteID, sprintID), nil, &g); err != nil {
		s.client.fail("Error while fetching team grade from students", err)
		return grade.StudentTeamGrade{}, false
	}
	if g == nil {
		return grade.StudentTeamGrade{TeamNotingID: notingID, TeamToNoteID: toNoteID, SprintID: sprintID}, true
	}
	return *g, true
}

// DetailService handles the graded criteria of the grade scales.
type DetailService struct {
	client *Client
}

func NewDetailService(c *Client) *DetailService {
	return &DetailService{client: c}
}

// send writes in and returns the details the backend answers with, or nil on failure.
func (s *DetailService) send(ctx context.Context, method, path string, in interface{}, failMsg string) []grade.Detail {
	var raw json.RawMessage
	if err := s.client.do(ctx, method, path, nil, in, &raw); err != nil {
		s.client.fail(failMsg, err)
		return nil
	}
	var details []grade.Detail
	if err := decodeListOrObject(raw, &details); err != nil {
		s.client.fail(failMsg, err)
		return nil
	}
	return details
}

func (s *DetailService) Create(ctx context.Context, d grade.Detail) []grade.Detail {
	if err := s.client.Validate(d); err != nil {
		s.client.fail("Error while creating detail", err)
		return nil
	}
	return s.send(ctx, http.MethodPost, "/details", d, "Error while creating detail")
}

func (s *DetailService) Update(ctx context.Context, id int, d grade.Detail) []grade.Detail {
	return s.send(ctx, http.MethodPut, fmt.Sprintf("/details/%d", id), d, "Error while updating detail")
}

// All returns the details. The backend answers with either a list or a single object.
func (s *DetailService) All(ctx context.Context) []grade.Detail {
	return s.send(ctx, http.MethodGet, "/details", nil, "Error while listing details")
}

func (s *DetailService) Delete(ctx context.Context, id int) []grade.Detail {
	return s.send(ctx, http.MethodDelete, fmt.Sprintf("/details/%d", id), nil, "Error while deleting detail")
}

func (s *DetailService) DeleteAll(ctx context.Context) bool {
	if err := s.client.delete(ctx, "/details", nil); err != nil {
		s.client.fail("Error while deleting details", err)
		return false
	}
	return true
}

// OfCategory returns the details of category id. Its failures are returned.
func (s *DetailService) OfCategory(ctx context.Context, id int) ([]grade.Detail, error) {
	var details []grade.Detail
	if err := s.client.get(ctx, fmt.Sprintf("/details/%d/category", id), nil, &details); err != nil {
		s.client.logger.Error("Error while listing details of category", err)
		return nil, err
	}
	return details, nil
}

// CategoryService handles the categories of the grade scales. Listing failures are
// returned.
type CategoryService struct {
	client *Client
}

func NewCategoryService(c *Client) *CategoryService {
	return &CategoryService{client: c}
}

func (s *CategoryService) All(ctx context.Context) ([]grade.Category, error) {
	return s.list(ctx, "/categories")
}

// OfGradeScale returns the categories of grade scale id.
func (s *CategoryService) OfGradeScale(ctx context.Context, id int) ([]grade.Category, error) {
	return s.list(ctx, fmt.Sprintf("/categories/%d/gradeScale", id))
}

func (s *CategoryService) list(ctx context.Context, path string) ([]grade.Category, error) {
	var cats []grade.Category
	if err := s.client.get(ctx, path, nil, &cats); err != nil {
		s.client.logger.Error("Error while listing categories", err)
		return nil, err
	}
	return cats, nil
}

func (s *CategoryService) DeleteAll(ctx context.Context) bool {
	if err := s.client.delete(ctx, "/categories", nil); err != nil {
		s.client.fail("Error while deleting categories", err)
		return false
	}
	return true
}
