package apisvc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/trezcool/projectgl/core/sprint"
)

type SprintService struct {
	client *Client
}

func NewSprintService(c *Client) *SprintService {
	return &SprintService{client: c}
}

// Create validates then creates sp. It returns false when the sprint is invalid or the
// backend refused it.
func (s *SprintService) Create(ctx context.Context, sp sprint.Sprint) (sprint.Sprint, bool) {
	return s.send(ctx, http.MethodPost, sp, "Error while creating sprint")
}

func (s *SprintService) Update(ctx context.Context, sp sprint.Sprint) (sprint.Sprint, bool) {
	return s.send(ctx, http.MethodPut, sp, "Error while updating sprint")
}

func (s *SprintService) send(ctx context.Context, method string, sp sprint.Sprint, failMsg string) (sprint.Sprint, bool) {
	if err := s.client.Validate(sp); err != nil {
		s.client.fail(failMsg, err)
		return sprint.Sprint{}, false
	}
	var resp *sprint.Sprint
	if err := s.client.do(ctx, method, "/sprint", nil, sp, &resp); err != nil {
		s.client.fail(failMsg, err)
		return sprint.Sprint{}, false
	}
	if resp == nil {
		return sprint.Sprint{}, false
	}
	return *resp, true
}

// All returns the sprints, or nil when there are none or the call failed.
func (s *SprintService) All(ctx context.Context) []sprint.Sprint {
	var sprints []sprint.Sprint
	if err := s.client.get(ctx, "/sprint", nil, &sprints); err != nil {
		s.client.fail("Error while listing sprints", err)
		return nil
	}
	if len(sprints) == 0 {
		return nil
	}
	return sprints
}

func (s *SprintService) DeleteAll(ctx context.Context) {
	if err := s.client.delete(ctx, "/sprint", nil); err != nil {
		s.client.fail("Error while deleting sprints", err)
	}
}

func (s *SprintService) ByID(ctx context.Context, id int) (sprint.Sprint, bool) {
	var resp *sprint.Sprint
	if err := s.client.get(ctx, fmt.Sprintf("/sprint/%d", id), nil, &resp); err != nil {
		s.client.fail("Error while fetching sprint", err)
		return sprint.Sprint{}, false
	}
	if resp == nil {
		return sprint.Sprint{}, false
	}
	return *resp, true
}
