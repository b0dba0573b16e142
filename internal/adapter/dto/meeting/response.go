package meeting

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// ProcessTranscriptResponse represents the outcome of one processing run
type ProcessTranscriptResponse struct {
	MeetingID         uuid.UUID `json:"meeting_id"`
	SummaryID         uuid.UUID `json:"summary_id"`
	ItemCount         int       `json:"item_count"`
	AutoAssignedCount int       `json:"auto_assigned_count"`
}

// SummaryResponse represents a persisted meeting summary
type SummaryResponse struct {
	ID             uuid.UUID `json:"id"`
	MeetingID      uuid.UUID `json:"meeting_id"`
	Summary        string    `json:"summary"`
	ModelUsed      string    `json:"model_used,omitempty"`
	ProcessingTime int       `json:"processing_time,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToSummaryResponse converts a summary entity to its response shape
func ToSummaryResponse(s *entities.MeetingSummary) *SummaryResponse {
	return &SummaryResponse{
		ID:             s.ID,
		MeetingID:      s.MeetingID,
		Summary:        s.Summary,
		ModelUsed:      s.ModelUsed,
		ProcessingTime: s.ProcessingTime,
		CreatedAt:      s.CreatedAt,
	}
}
