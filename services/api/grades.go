package apisvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/core/grade"
	"github.com/trezcool/projectgl/core/team"
)

// Grade types the backend seeds.
const (
	GradeTypeMarks        = 1
	GradeTypeProject      = 2
	GradeTypePresentation = 3
)

type GradeScaleService struct {
	client *Client
}

func NewGradeScaleService(c *Client) *GradeScaleService {
	return &GradeScaleService{client: c}
}

func (s *GradeScaleService) Create(ctx context.Context, scales []grade.Scale) bool {
	for i := range scales {
		if err := s.client.Validate(scales[i]); err != nil {
			s.client.fail("Error while creating grade scale", err)
			return false
		}
	}
	if err := s.client.post(ctx, "/gradeScale", nil, scales, nil); err != nil {
		s.client.fail("Error while creating grade scale", err)
		return false
	}
	return true
}

// Type returns grade type id; see the GradeType constants.
func (s *GradeScaleService) Type(ctx context.Context, id int) (grade.Type, bool) {
	var t *grade.Type
	if err := s.client.get(ctx, fmt.Sprintf("/gradeScale/%d", id), nil, &t); err != nil {
		s.client.fail("Error while fetching grade type", err)
		return grade.Type{}, false
	}
	if t == nil {
		return grade.Type{}, false
	}
	return *t, true
}

// All returns the grade scales. The backend answers with either a list or a single
// object.
func (s *GradeScaleService) All(ctx context.Context) []grade.Type {
	var raw json.RawMessage
	if err := s.client.get(ctx, "/gradeScale", nil, &raw); err != nil {
		s.client.fail("Error while listing grade scales", err)
		return nil
	}
	var types []grade.Type
	if err := decodeListOrObject(raw, &types); err != nil {
		s.client.fail("Error while listing grade scales", errors.Wrap(err, "decoding grade scales"))
		return nil
	}
	return types
}

// decodeListOrObject decodes a JSON list, or a single object as a list of one, into
// list. An empty or null raw leaves list untouched.
func decodeListOrObject(raw json.RawMessage, list interface{}) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '{' {
		raw = append(append([]byte{'['}, raw...), ']')
	}
	return errors.Wrap(json.Unmarshal(raw, list), "decoding list")
}

func (s *GradeScaleService) DeleteAll(ctx context.Context) bool {
	if err := s.client.delete(ctx, "/gradeScale", nil); err != nil {
		s.client.fail("Error while deleting grade scales", err)
		return false
	}
	return true
}

type BonusMalusService struct {
	client *Client
}

func NewBonusMalusService(c *Client) *BonusMalusService {
	return &BonusMalusService{client: c}
}

func sprintQuery(sprintID int) url.Values {
	return url.Values{"sprintId": []string{strconv.Itoa(sprintID)}}
}

// Team returns the limited or unlimited bonus/malus of a team during a sprint, or nil
// when there are none.
func (s *BonusMalusService) Team(ctx context.Context, teamID, sprintID int, unlimited bool) []grade.BonusMalus {
	kind := "limited"
	if unlimited {
		kind = "unlimited"
	}
	var bms []grade.BonusMalus
	if err := s.client.get(ctx, fmt.Sprintf("/bonusMalus/%d/%s", teamID, kind), sprintQuery(sprintID), &bms); err != nil {
		s.client.fail("Error while listing bonus/malus", err)
		return nil
	}
	if len(bms) == 0 {
		return nil
	}
	return bms
}

func (s *BonusMalusService) Add(ctx context.Context, teamID, sprintID int, bms []grade.BonusMalus) error {
	for i := range bms {
		if err := s.client.Validate(bms[i]); err != nil {
			return err
		}
	}
	return s.client.post(ctx, fmt.Sprintf("/bonusMalus/%d", teamID), sprintQuery(sprintID), bms, nil)
}

// Validate records that the current user validates the bonus/malus of their team.
func (s *BonusMalusService) Validate(ctx context.Context, teamID, sprintID int) error {
	return s.client.post(ctx, fmt.Sprintf("/bonusMalus/%d/validate", teamID), sprintQuery(sprintID), nil, nil)
}

// Validators returns the ids of the members who validated, or nil when none did.
func (s *BonusMalusService) Validators(ctx context.Context, teamID, sprintID int) []int {
	var ids []int
	if err := s.client.get(ctx, fmt.Sprintf("/bonusMalus/%d/validate", teamID), sprintQuery(sprintID), &ids); err != nil {
		s.client.fail("Error while listing bonus/malus validators", err)
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// ForStudent returns the bonus/malus userID received from their team during a sprint.
func (s *BonusMalusService) ForStudent(ctx context.Context, userID, sprintID int) (grade.BonusMalus, bool) {
	return s.forUser(ctx, "/bonusMalus/student", userID, sprintID)
}

// ForTeacher returns the bonus/malus userID received from the supervising staff.
func (s *BonusMalusService) ForTeacher(ctx context.Context, userID, sprintID int) (grade.BonusMalus, bool) {
	return s.forUser(ctx, "/bonusMalus/teacher", userID, sprintID)
}

func (s *BonusMalusService) forUser(ctx context.Context, path string, userID, sprintID int) (grade.BonusMalus, bool) {
	query := sprintQuery(sprintID)
	query.Set("userId", strconv.Itoa(userID))

	var bm *grade.BonusMalus
	if err := s.client.get(ctx, path, query, &bm); err != nil {
		s.client.fail("Error while fetching bonus/malus", err)
		return grade.BonusMalus{}, false
	}
	if bm == nil {
		return grade.BonusMalus{}, false
	}
	return *bm, true
}

type TeamOrderService struct {
	client *Client
}

func NewTeamOrderService(c *Client) *TeamOrderService {
	return &TeamOrderService{client: c}
}

func teamOrderPath(teamID, sprintID int) string {
	return fmt.Sprintf("/teamOrder/for/%d/during/%d", teamID, sprintID)
}

func (s *TeamOrderService) Save(ctx context.Context, teamID, sprintID int, userIDs []int) bool {
	if err := s.client.put(ctx, teamOrderPath(teamID, sprintID), userIDs, nil); err != nil {
		s.client.fail("Error while saving team order", err)
		return false
	}
	return true
}

// Get returns the running order of a team during a sprint. A team without one gets an
// empty order.
func (s *TeamOrderService) Get(ctx context.Context, teamID, sprintID int) (team.Order, bool) {
	var order *team.Order
	if err := s.client.get(ctx, teamOrderPath(teamID, sprintID), nil, &order); err != nil {
		s.client.fail("Error while fetching team order", err)
		return team.Order{}, false
	}
	if order == nil {
		return team.Order{TeamID: teamID, SprintID: sprintID, Order: []int{}}, true
	}
	return *order, true
}

// ProjectGradeService handles project grades. Its failures are returned.
type ProjectGradeService struct {
	client *Client
}

func NewProjectGradeService(c *Client) *ProjectGradeService {
	return &ProjectGradeService{client: c}
}

func projectGradePath(userID, sprintID int) string {
	return fmt.Sprintf("/projectGrade/%d/%d", userID, sprintID)
}

func (s *ProjectGradeService) Save(ctx context.Context, userID, sprintID int) error {
	if err := s.client.post(ctx, projectGradePath(userID, sprintID), nil, nil, nil); err != nil {
		s.client.logger.Error("Error while saving project grade", err)
		return err
	}
	return nil
}

func (s *ProjectGradeService) Update(ctx context.Context, userID, sprintID int) (grade.Project, error) {
	var pg grade.Project
	if err := s.client.put(ctx, projectGradePath(userID, sprintID), nil, &pg); err != nil {
		s.client.logger.Error("Error while updating project grade", err)
		return grade.Project{}, err
	}
	return pg, nil
}

func (s *ProjectGradeService) Get(ctx context.Context, userID, sprintID int) (grade.Project, error) {
	var pg grade.Project
	if err := s.client.get(ctx, projectGradePath(userID, sprintID), nil, &pg); err != nil {
		s.client.logger.Error("Error while fetching project grade", err)
		return grade.Project{}, err
	}
	return pg, nil
}

func (s *ProjectGradeService) All(ctx context.Context) ([]grade.Project, error) {
	var pgs []grade.Project
	if err := s.client.get(ctx, "/projectGrade/all", nil, &pgs); err != nil {
		s.client.logger.Error("Error while listing project grades", err)
		return nil, err
	}
	return pgs, nil
}

// Validate marks project grade id as validated. It logs and returns false on failure.
func (s *ProjectGradeService) Validate(ctx context.Context, id int) bool {
	if err := s.client.put(ctx, fmt.Sprintf("/projectGrade/validate/%d", id), nil, nil); err != nil {
		s.client.fail("Error while validating project grade", err)
		return false
	}
	return true
}
