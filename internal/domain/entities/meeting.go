package entities

import (
	"time"

	"github.com/google/uuid"
)

// Meeting is the aggregate that owns a transcript's processing output
type Meeting struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TeamID        uuid.UUID `json:"team_id" gorm:"type:uuid;not null;index"`
	Title         string    `json:"title" gorm:"type:varchar(500)"`
	SourceFile    string    `json:"source_file,omitempty" gorm:"type:varchar(500)"`
	TranscriptURL string    `json:"transcript_url,omitempty" gorm:"type:text"`
	CreatedBy     uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// MeetingSummary is the persisted result of one processing run
type MeetingSummary struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID      uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	Summary        string    `json:"summary" gorm:"type:text;not null"`
	ModelUsed      string    `json:"model_used,omitempty" gorm:"type:varchar(50)"`
	ProcessingTime int       `json:"processing_time,omitempty"` // in milliseconds
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for MeetingSummary
func (MeetingSummary) TableName() string {
	return "meeting_summaries"
}

// NewMeetingSummary creates a new MeetingSummary entity
func NewMeetingSummary(meetingID uuid.UUID, summary string) *MeetingSummary {
	return &MeetingSummary{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Summary:   summary,
	}
}
