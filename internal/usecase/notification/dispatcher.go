package notification

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	"github.com/johnquangdev/meeting-taskflow/internal/domain/repositories"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/realtime"
)

// dedupTTL bounds how long a dedup key suppresses replays of the same
// logical event
const dedupTTL = 24 * time.Hour

// DedupStore claims idempotency keys; first caller wins
type DedupStore interface {
	SetIfAbsent(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Publisher pushes inbox deltas to live subscribers
type Publisher interface {
	Publish(ctx context.Context, key string, payload any)
}

// Dispatcher writes typed notification records to per-user inboxes and
// triggers real-time delivery. Dispatch itself is not transactional with the
// operations that cause it; callers treat it as best-effort.
type Dispatcher struct {
	repo   repositories.NotificationRepository
	teams  repositories.TeamRepository
	dedup  DedupStore
	rt     Publisher
	logger *zap.Logger
}

// NewDispatcher constructs a dispatcher
func NewDispatcher(
	repo repositories.NotificationRepository,
	teams repositories.TeamRepository,
	dedup DedupStore,
	rt Publisher,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		teams:  teams,
		dedup:  dedup,
		rt:     rt,
		logger: logger,
	}
}

// Dispatch validates, persists and propagates one notification for one
// recipient. Fan-out beyond a single recipient is the caller's job.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	kind entities.NotificationType,
	recipientID uuid.UUID,
	title, message string,
	data datatypes.JSON,
) (*entities.Notification, error) {
	if recipientID == uuid.Nil {
		return nil, entities.ErrEmptyRecipient
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownNotificationType, kind)
	}

	n := entities.NewNotification(recipientID, kind, title, message, data)
	if err := d.repo.Save(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}

	if d.rt != nil {
		d.rt.Publish(ctx, realtime.NotificationsKey(recipientID), n)
	}

	return n, nil
}

// DispatchDeduped behaves like Dispatch but suppresses replays of the same
// logical event. The dedup key is derived from type, recipient and the
// caller-supplied event ID. Returns (nil, nil) when the event was already
// dispatched.
func (d *Dispatcher) DispatchDeduped(
	ctx context.Context,
	kind entities.NotificationType,
	recipientID uuid.UUID,
	title, message string,
	data datatypes.JSON,
	eventID string,
) (*entities.Notification, error) {
	if d.dedup != nil && eventID != "" {
		key := dedupKey(kind, recipientID, eventID)
		fresh, err := d.dedup.SetIfAbsent(ctx, key, dedupTTL)
		if err != nil {
			// Dedup store trouble should not drop the notification; a
			// duplicate beats a silent miss.
			if d.logger != nil {
				d.logger.Warn("dedup check failed, dispatching anyway", zap.Error(err))
			}
		} else if !fresh {
			return nil, nil
		}
	}

	return d.Dispatch(ctx, kind, recipientID, title, message, data)
}

// AcceptInvitation transitions the invited member to active and then
// notifies the inviter. Only the invited user can settle their own
// invitation. Membership state is the source of truth: if the status
// mutation fails, no notification goes out.
func (d *Dispatcher) AcceptInvitation(ctx context.Context, memberID, actorID uuid.UUID) error {
	return d.settleInvitation(ctx, memberID, actorID, entities.MemberStatusActive, "accepted")
}

// DeclineInvitation transitions the invited member to inactive and then
// notifies the inviter
func (d *Dispatcher) DeclineInvitation(ctx context.Context, memberID, actorID uuid.UUID) error {
	return d.settleInvitation(ctx, memberID, actorID, entities.MemberStatusInactive, "declined")
}

func (d *Dispatcher) settleInvitation(ctx context.Context, memberID, actorID uuid.UUID, status entities.MemberStatus, verb string) error {
	member, err := d.teams.FindMemberByID(ctx, memberID)
	if err != nil {
		return err
	}
	if member.UserID != actorID {
		return entities.ErrForbidden
	}
	if member.Status != entities.MemberStatusInvited {
		return entities.ErrInvitationNotPending
	}

	if err := d.teams.UpdateMemberStatus(ctx, memberID, status); err != nil {
		return fmt.Errorf("failed to update member status: %w", err)
	}

	if member.InvitedBy == nil {
		return nil
	}

	data, _ := marshalData(map[string]string{
		"team_id":   member.TeamID.String(),
		"member_id": member.ID.String(),
		"outcome":   verb,
	})
	_, err = d.Dispatch(ctx,
		entities.NotificationTeamInvitation,
		*member.InvitedBy,
		fmt.Sprintf("Invitation %s", verb),
		fmt.Sprintf("%s %s your team invitation", member.DisplayName, verb),
		data,
	)
	if err != nil && d.logger != nil {
		// Membership already settled; the follow-up notification is advisory
		d.logger.Error("failed to notify inviter",
			zap.String("member_id", memberID.String()),
			zap.Error(err),
		)
	}

	return nil
}

// ListForUser returns a user's inbox, newest first
func (d *Dispatcher) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]*entities.Notification, error) {
	return d.repo.ListByUser(ctx, userID, unreadOnly)
}

// MarkRead marks one of the user's notifications as read. A notification
// owned by someone else reads as not found.
func (d *Dispatcher) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	return d.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead marks a user's whole inbox as read
func (d *Dispatcher) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return d.repo.MarkAllRead(ctx, userID)
}

// Delete removes one of the user's notifications
func (d *Dispatcher) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return d.repo.Delete(ctx, userID, id)
}

func dedupKey(kind entities.NotificationType, recipientID uuid.UUID, eventID string) string {
	sum := sha256.Sum256([]byte(string(kind) + "|" + recipientID.String() + "|" + eventID))
	return "notify:dedup:" + hex.EncodeToString(sum[:])
}

func marshalData(m map[string]string) (datatypes.JSON, error) {
	b, err := datatypes.NewJSONType(m).MarshalJSON()
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
