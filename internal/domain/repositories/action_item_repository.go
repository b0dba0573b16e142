package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// ActionItemRepository defines persistence operations for action items
type ActionItemRepository interface {
	Save(ctx context.Context, item *entities.ActionItem) error
	SaveBatch(ctx context.Context, items []*entities.ActionItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error)
	ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*entities.ActionItem, error)
	ListOverdue(ctx context.Context) ([]*entities.ActionItem, error)
	DeleteByMeeting(ctx context.Context, meetingID uuid.UUID) error
}
