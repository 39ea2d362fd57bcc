package apisvc

import (
	"context"
	"net/url"
	"strconv"

	"github.com/trezcool/projectgl/core/sprint"
)

// PostService handles the messages attached to a team during a sprint. The comments and
// feedbacks resources share its shape.
type PostService struct {
	client *Client
	path   string
}

func NewCommentService(c *Client) *PostService {
	return &PostService{client: c, path: "/comments"}
}

func NewFeedbackService(c *Client) *PostService {
	return &PostService{client: c, path: "/feedbacks"}
}

func (s *PostService) Create(ctx context.Context, p sprint.Post) bool {
	if err := s.client.Validate(p); err != nil {
		s.client.fail("Error while creating "+s.path[1:], err)
		return false
	}
	if err := s.client.put(ctx, s.path, p, nil); err != nil {
		s.client.fail("Error while creating "+s.path[1:], err)
		return false
	}
	return true
}

// ByTeamAndSprint returns the posts of a team during a sprint, or nil when there are none.
func (s *PostService) ByTeamAndSprint(ctx context.Context, teamID, sprintID int) []sprint.Post {
	query := url.Values{}
	query.Set("teamId", strconv.Itoa(teamID))
	query.Set("sprintId", strconv.Itoa(sprintID))

	var posts []sprint.Post
	if err := s.client.get(ctx, s.path, query, &posts); err != nil {
		s.client.fail("Error while listing "+s.path[1:], err)
		return nil
	}
	if len(posts) == 0 {
		return nil
	}
	return posts
}

func (s *PostService) Delete(ctx context.Context, p sprint.Post) bool {
	if err := s.client.delete(ctx, s.path, p); err != nil {
		s.client.fail("Error while deleting "+s.path[1:], err)
		return false
	}
	return true
}
