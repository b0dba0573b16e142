package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationType identifies the kind of event a notification reports
type NotificationType string

const (
	NotificationTeamInvitation NotificationType = "team_invitation"
	NotificationTaskAssignment NotificationType = "task_assignment"
	NotificationTaskCompleted  NotificationType = "task_completed"
	NotificationTaskOverdue    NotificationType = "task_overdue"
	NotificationMeetingUpdate  NotificationType = "meeting_update"
)

// IsValid checks if the notification type is a known kind
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTeamInvitation, NotificationTaskAssignment,
		NotificationTaskCompleted, NotificationTaskOverdue, NotificationMeetingUpdate:
		return true
	}
	return false
}

// Notification is one entry in a user's inbox. Created by the dispatcher,
// mutated only through read-state transitions and deletion.
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Type      NotificationType `json:"type" gorm:"type:varchar(50);not null"`
	Title     string           `json:"title" gorm:"type:varchar(500);not null"`
	Message   string           `json:"message" gorm:"type:text"`
	Data      datatypes.JSON   `json:"data,omitempty" gorm:"type:jsonb;default:'{}'"`
	Read      bool             `json:"read" gorm:"default:false;not null"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification
func NewNotification(userID uuid.UUID, kind NotificationType, title, message string, data datatypes.JSON) *Notification {
	if data == nil {
		data = datatypes.JSON([]byte("{}"))
	}
	return &Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Data:    data,
	}
}
