package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// MeetingRepository defines persistence operations for meetings and summaries
type MeetingRepository interface {
	Save(ctx context.Context, m *entities.Meeting) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	SaveSummary(ctx context.Context, s *entities.MeetingSummary) error
	FindSummaryByMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingSummary, error)
}
