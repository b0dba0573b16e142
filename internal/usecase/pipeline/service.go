package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	"github.com/johnquangdev/meeting-taskflow/internal/domain/repositories"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/realtime"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/assignment"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/extraction"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/notification"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/resolver"
)

// Extractor is the slice of the AI extraction client the pipeline needs
type Extractor interface {
	Extract(ctx context.Context, transcript string, roster []*entities.TeamMember) (*entities.ExtractionResult, error)
}

// Archiver stores raw transcripts; nil disables archival
type Archiver interface {
	Archive(ctx context.Context, meetingID uuid.UUID, sourceFile, content string) (string, error)
}

// Subscriber hands out live views on user task lists and inboxes
type Subscriber interface {
	Subscribe(ctx context.Context, key string, cb realtime.Callback) (func(), error)
}

// ProcessResult summarizes one processing run for the caller
type ProcessResult struct {
	MeetingID         uuid.UUID `json:"meeting_id"`
	SummaryID         uuid.UUID `json:"summary_id"`
	ItemCount         int       `json:"item_count"`
	AutoAssignedCount int       `json:"auto_assigned_count"`
}

// Service orchestrates one processing run: validate → archive → extract →
// resolve → assign → persist → notify → propagate. Within a run the stages
// are strictly sequential; runs for unrelated transcripts share no mutable
// state and may proceed concurrently.
type Service struct {
	meetings   repositories.MeetingRepository
	items      repositories.ActionItemRepository
	teams      repositories.TeamRepository
	extractor  Extractor
	engine     *assignment.Engine
	dispatcher *notification.Dispatcher
	archive    Archiver
	subs       Subscriber
	modelName  string
	logger     *zap.Logger
}

// NewService constructs the pipeline service. All collaborators are injected
// so tests can substitute fakes per case.
func NewService(
	meetings repositories.MeetingRepository,
	items repositories.ActionItemRepository,
	teams repositories.TeamRepository,
	extractor Extractor,
	engine *assignment.Engine,
	dispatcher *notification.Dispatcher,
	archive Archiver,
	subs Subscriber,
	modelName string,
	logger *zap.Logger,
) *Service {
	return &Service{
		meetings:   meetings,
		items:      items,
		teams:      teams,
		extractor:  extractor,
		engine:     engine,
		dispatcher: dispatcher,
		archive:    archive,
		subs:       subs,
		modelName:  modelName,
		logger:     logger,
	}
}

// ProcessTranscript ingests one raw transcript for a team. Unresolved
// speakers never block the run: their items are created unassigned.
// Cancelling ctx aborts the run before any result is persisted.
func (s *Service) ProcessTranscript(
	ctx context.Context,
	rawText, sourceFile, title string,
	teamID, actorID uuid.UUID,
) (*ProcessResult, error) {
	transcript := entities.NewTranscript(rawText, sourceFile)
	if err := ValidateTranscript(transcript); err != nil {
		return nil, &extraction.ExtractionError{Reason: extraction.ReasonRejectedInput, Err: err}
	}

	roster, err := s.teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	meeting := &entities.Meeting{
		ID:         uuid.New(),
		TeamID:     teamID,
		Title:      title,
		SourceFile: sourceFile,
		CreatedBy:  actorID,
	}

	// Archival is best-effort: losing the raw blob is recoverable, losing
	// the processing run is not.
	if s.archive != nil {
		objectName, err := s.archive.Archive(ctx, meeting.ID, sourceFile, rawText)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("transcript archival failed",
					zap.String("meeting_id", meeting.ID.String()),
					zap.Error(err),
				)
			}
		} else {
			meeting.TranscriptURL = objectName
		}
	}

	started := time.Now()
	extracted, err := s.extractor.Extract(ctx, transcript.Text, roster)
	if err != nil {
		return nil, err
	}

	matches := resolver.Resolve(transcript.Text, roster)

	summary := entities.NewMeetingSummary(meeting.ID, extracted.Summary)
	summary.ModelUsed = s.modelName
	summary.ProcessingTime = int(time.Since(started).Milliseconds())

	items := s.engine.AutoAssign(extracted, matches, meeting.ID, summary.ID)

	if err := s.meetings.Save(ctx, meeting); err != nil {
		return nil, fmt.Errorf("failed to save meeting: %w", err)
	}
	if err := s.meetings.SaveSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("failed to save summary: %w", err)
	}

	// The summary upsert keeps the existing row on reprocess; items must
	// reference the surviving id.
	for _, item := range items {
		sid := summary.ID
		item.SummaryID = &sid
	}

	if err := s.items.SaveBatch(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to save action items: %w", err)
	}

	// Everything below is advisory; the run already committed.
	s.engine.NotifyAssignments(ctx, items)
	s.notifyTeam(ctx, meeting, roster, actorID)

	autoAssigned := 0
	for _, item := range items {
		if item.IsAssigned() {
			autoAssigned++
		}
	}

	if s.logger != nil {
		s.logger.Info("transcript processed",
			zap.String("meeting_id", meeting.ID.String()),
			zap.Int("item_count", len(items)),
			zap.Int("auto_assigned", autoAssigned),
			zap.Int("speaker_labels", len(matches)),
		)
	}

	return &ProcessResult{
		MeetingID:         meeting.ID,
		SummaryID:         summary.ID,
		ItemCount:         len(items),
		AutoAssignedCount: autoAssigned,
	}, nil
}

// notifyTeam fans a meeting_update out to every active member except the
// actor. The dispatcher writes one record per explicit recipient; team-wide
// fan-out is this caller's responsibility.
func (s *Service) notifyTeam(ctx context.Context, meeting *entities.Meeting, roster []*entities.TeamMember, actorID uuid.UUID) {
	if s.dispatcher == nil {
		return
	}

	data, _ := json.Marshal(map[string]string{
		"meeting_id": meeting.ID.String(),
		"team_id":    meeting.TeamID.String(),
	})

	for _, member := range entities.ActiveMembers(roster) {
		if member.UserID == actorID {
			continue
		}
		eventID := "processed:" + meeting.ID.String()
		if _, err := s.dispatcher.DispatchDeduped(ctx,
			entities.NotificationMeetingUpdate,
			member.UserID,
			"Meeting processed",
			fmt.Sprintf("Summary and action items are ready for %q", meeting.Title),
			datatypes.JSON(data),
			eventID,
		); err != nil && s.logger != nil {
			s.logger.Error("failed to notify team member",
				zap.String("user_id", member.UserID.String()),
				zap.Error(err),
			)
		}
	}
}

// GetUserTasks returns a snapshot of the items assigned to a user
func (s *Service) GetUserTasks(ctx context.Context, userID uuid.UUID) ([]*entities.ActionItem, error) {
	return s.items.ListByAssignee(ctx, userID)
}

// SubscribeToUserTasks opens a live view on a user's task list: an immediate
// snapshot followed by ordered deltas
func (s *Service) SubscribeToUserTasks(ctx context.Context, userID uuid.UUID, cb realtime.Callback) (func(), error) {
	return s.subs.Subscribe(ctx, realtime.TasksKey(userID), cb)
}

// SubscribeToUserNotifications opens a live view on a user's inbox
func (s *Service) SubscribeToUserNotifications(ctx context.Context, userID uuid.UUID, cb realtime.Callback) (func(), error) {
	return s.subs.Subscribe(ctx, realtime.NotificationsKey(userID), cb)
}
