package apisvc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/core/team"
)

type TeamService struct {
	client *Client
}

func NewTeamService(c *Client) *TeamService {
	return &TeamService{client: c}
}

// Generate asks the backend to build teams out of the imported students. It returns nil
// when the backend built none.
func (s *TeamService) Generate(ctx context.Context, req team.GenerateRequest) ([]team.Team, error) {
	if err := s.client.Validate(req); err != nil {
		return nil, err
	}
	var resps []team.Response
	if err := s.client.post(ctx, "/teams", nil, req, &resps); err != nil {
		return nil, err
	}
	if len(resps) == 0 {
		return nil, nil
	}
	return team.FormatResponses(resps), nil
}

// All returns every team, or nil when there are none or the call failed.
func (s *TeamService) All(ctx context.Context) []team.Team {
	var resps []team.Response
	if err := s.client.get(ctx, "/teams", nil, &resps); err != nil {
		s.client.fail("Error while listing teams", err)
		return nil
	}
	if len(resps) == 0 {
		return nil
	}
	return team.FormatResponses(resps)
}

func (s *TeamService) DeleteAll(ctx context.Context) bool {
	if err := s.client.delete(ctx, "/teams", nil); err != nil {
		s.client.fail("Error while deleting teams", err)
		return false
	}
	return true
}

func (s *TeamService) Save(ctx context.Context, t team.Team) error {
	if err := s.client.put(ctx, "/teams", t, nil); err != nil {
		s.client.logger.Error("Error while saving team", err)
		return errors.Wrapf(err, "saving team %d", t.ID)
	}
	return nil
}

func (s *TeamService) ByID(ctx context.Context, id int) (team.Team, error) {
	var resp team.Response
	if err := s.client.get(ctx, fmt.Sprintf("/teams/%d", id), nil, &resp); err != nil {
		s.client.logger.Error("Error while fetching team", err)
		return team.Team{}, err
	}
	return resp.Team(), nil
}

// Of returns the team userID belongs to, if any.
func (s *TeamService) Of(ctx context.Context, userID int) (team.Team, bool) {
	for _, t := range s.All(ctx) {
		if t.Has(userID) {
			return t, true
		}
	}
	return team.Team{}, false
}
