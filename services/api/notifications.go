package apisvc

import (
	"context"
	"fmt"

	"github.com/trezcool/projectgl/core/notification"
)

type NotificationService struct {
	client *Client
}

func NewNotificationService(c *Client) *NotificationService {
	return &NotificationService{client: c}
}

// ByUser returns the notifications received by userID, or nil when there are none.
func (s *NotificationService) ByUser(ctx context.Context, userID int) []notification.Notification {
	var resps []notification.Response
	if err := s.client.get(ctx, fmt.Sprintf("/notifications/%d", userID), nil, &resps); err != nil {
		s.client.fail("Error while listing notifications", err)
		return nil
	}
	if len(resps) == 0 {
		return nil
	}
	ns := make([]notification.Notification, 0, len(resps))
	for _, r := range resps {
		ns = append(ns, r.Notification())
	}
	return ns
}

func (s *NotificationService) Delete(ctx context.Context, id int) bool {
	if err := s.client.delete(ctx, fmt.Sprintf("/notifications/%d", id), nil); err != nil {
		s.client.fail("Error while deleting notification", err)
		return false
	}
	return true
}

// Toggle flips notification id between read and unread.
func (s *NotificationService) Toggle(ctx context.Context, id int) (notification.Notification, bool) {
	var resp notification.Response
	if err := s.client.put(ctx, fmt.Sprintf("/notifications/%d", id), nil, &resp); err != nil {
		s.client.fail("Error while toggling notification", err)
		return notification.Notification{}, false
	}
	return resp.Notification(), true
}

func (s *NotificationService) Update(ctx context.Context, n notification.Notification) bool {
	if err := s.client.put(ctx, "/notifications", n, nil); err != nil {
		s.client.fail("Error while updating notification", err)
		return false
	}
	return true
}

func (s *NotificationService) Create(ctx context.Context, n notification.New) error {
	if err := s.client.Validate(n); err != nil {
		return err
	}
	if err := s.client.post(ctx, "/notifications", nil, n, nil); err != nil {
		s.client.logger.Error("Failed to create notification", err)
		return err
	}
	return nil
}
