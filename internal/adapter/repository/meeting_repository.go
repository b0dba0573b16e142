package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	repo "github.com/johnquangdev/meeting-taskflow/internal/domain/repositories"
)

type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository backed by GORM
func NewMeetingRepository(db *gorm.DB) repo.MeetingRepository {
	return &meetingRepository{db: db}
}

func (r *meetingRepository) Save(ctx context.Context, m *entities.Meeting) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var m entities.Meeting
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *meetingRepository) SaveSummary(ctx context.Context, s *entities.MeetingSummary) error {
	// One summary per meeting; reprocessing replaces the previous run. On
	// conflict the existing row's id survives, so it is read back into s for
	// anything that references the summary afterwards.
	q := `INSERT INTO meeting_summaries (id, meeting_id, summary, model_used, processing_time, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, NOW())
        ON CONFLICT (meeting_id) DO UPDATE SET summary = EXCLUDED.summary, model_used = EXCLUDED.model_used, processing_time = EXCLUDED.processing_time, updated_at = NOW()
        RETURNING id`

	return r.db.WithContext(ctx).Raw(q,
		s.ID, s.MeetingID, s.Summary, s.ModelUsed, s.ProcessingTime, time.Now(),
	).Scan(&s.ID).Error
}

func (r *meetingRepository) FindSummaryByMeeting(ctx context.Context, meetingID uuid.UUID) (*entities.MeetingSummary, error) {
	var s entities.MeetingSummary
	err := r.db.WithContext(ctx).First(&s, "meeting_id = ?", meetingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrMeetingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
