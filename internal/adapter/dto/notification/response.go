package notification

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// NotificationResponse represents one inbox entry in API responses
type NotificationResponse struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToNotificationResponse converts a notification entity to its response shape
func ToNotificationResponse(n *entities.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      json.RawMessage(n.Data),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications
func ToNotificationResponses(list []*entities.Notification) []*NotificationResponse {
	out := make([]*NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, ToNotificationResponse(n))
	}
	return out
}
