package dto

import (
	"time"

	"github.com/loanworks/loan-service/internal/domain"
)

// NotificationResponse is the public notification shape.
type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// FromNotification maps a domain notification onto the response shape.
func FromNotification(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// FromNotifications maps a slice of notifications.
func FromNotifications(list []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, FromNotification(&list[i]))
	}
	return out
}
