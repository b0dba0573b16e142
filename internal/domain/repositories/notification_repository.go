package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// NotificationRepository defines persistence operations for notification
// inboxes. Mutations are scoped to the owning user; a notification belonging
// to someone else reads as not found.
type NotificationRepository interface {
	Save(ctx context.Context, n *entities.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
