package notification

import (
	"time"

	"github.com/trezcool/projectgl/core/user"
)

// Notification statuses.
const (
	StatusRead   = "READ"
	StatusUnread = "UNREAD"
)

type Notification struct {
	ID          int       `json:"id"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Emitter     user.User `json:"emitter"`
	Receiver    user.User `json:"receiver"`
	GroupID     int       `json:"groupeId,omitempty"`
}

func (n Notification) IsUnread() bool {
	return n.Status == StatusUnread
}

// Unread counts the unread notifications of ns.
func Unread(ns []Notification) int {
	var count int
	for _, n := range ns {
		if n.IsUnread() {
			count++
		}
	}
	return count
}

// Response is the notification payload sent by the backend.
type Response struct {
	ID          int           `json:"id"`
	Type        string        `json:"type"`
	Status      string        `json:"status"`
	Description string        `json:"description"`
	Date        time.Time     `json:"date"`
	Emitter     user.Response `json:"emitter"`
	Receiver    user.Response `json:"receiver"`
	GroupID     int           `json:"groupeId"`
}

func (r Response) Notification() Notification {
	emitter, _ := r.Emitter.User(false)
	receiver, _ := r.Receiver.User(false)
	return Notification{
		ID:          r.ID,
		Type:        r.Type,
		Status:      r.Status,
		Description: r.Description,
		Date:        r.Date,
		Emitter:     emitter,
		Receiver:    receiver,
		GroupID:     r.GroupID,
	}
}

// New is sent to create a notification.
type New struct {
	Type        string    `json:"type" validate:"required"`
	Status      string    `json:"status" validate:"oneof=READ UNREAD"`
	Description string    `json:"description" validate:"required"`
	Date        time.Time `json:"date"`
	EmitterID   int       `json:"emitterId" validate:"required"`
	ReceiverID  int       `json:"receiverId" validate:"required"`
	GroupID     int       `json:"groupeId,omitempty"`
}
