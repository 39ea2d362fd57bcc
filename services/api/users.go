package apisvc

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/projectgl/core"
	"github.com/trezcool/projectgl/core/user"
)

type UserService struct {
	client *Client
}

func NewUserService(c *Client) *UserService {
	return &UserService{client: c}
}

func (s *UserService) list(ctx context.Context, path string) []user.User {
	var resps []user.Response
	if err := s.client.get(ctx, path, nil, &resps); err != nil {
		s.client.fail("Error while listing users", err)
		return nil
	}
	if len(resps) == 0 {
		return nil
	}
	return user.FormatResponses(resps)
}

func (s *UserService) All(ctx context.Context) []user.User {
	return s.list(ctx, "/users")
}

// Students returns the imported students, or nil when there are none.
func (s *UserService) Students(ctx context.Context) []user.User {
	return s.list(ctx, "/users/students")
}

func (s *UserService) Teachers(ctx context.Context) []user.User {
	return s.list(ctx, "/users/teachers")
}

func (s *UserService) Staff(ctx context.Context) []user.User {
	return s.list(ctx, "/users/staff")
}

func (s *UserService) ByID(ctx context.Context, id int) (user.User, bool) {
	var resp user.Response
	if err := s.client.get(ctx, fmt.Sprintf("/users/%d", id), nil, &resp); err != nil {
		s.client.fail("Error while fetching user", err)
		return user.User{}, false
	}
	usr, _ := resp.User(false)
	return usr, true
}

// CreateStudents validates then uploads an imported student list.
func (s *UserService) CreateStudents(ctx context.Context, students []user.NewStudent) error {
	for i := range students {
		if err := students[i].Validate(s.client.validate); err != nil {
			return errors.Wrapf(core.TranslateValidation(err, s.client.translator), "student %d", i+1)
		}
	}
	return s.client.post(ctx, "/users/students", nil, students, nil)
}

func (s *UserService) DeleteStudents(ctx context.Context) bool {
	if err := s.client.delete(ctx, "/users/students", nil); err != nil {
		s.client.fail("Error while deleting students", err)
		return false
	}
	return true
}
