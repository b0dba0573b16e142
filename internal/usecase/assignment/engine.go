package assignment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	"github.com/johnquangdev/meeting-taskflow/internal/domain/repositories"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/realtime"
)

// AutoAssignThreshold is the minimum speaker-match confidence for automatic
// assignment. Below it the item is created unassigned for manual triage.
const AutoAssignThreshold = 0.5

// Notifier is the slice of the dispatcher the engine needs
type Notifier interface {
	Dispatch(ctx context.Context, kind entities.NotificationType, recipientID uuid.UUID, title, message string, data datatypes.JSON) (*entities.Notification, error)
	DispatchDeduped(ctx context.Context, kind entities.NotificationType, recipientID uuid.UUID, title, message string, data datatypes.JSON, eventID string) (*entities.Notification, error)
}

// Publisher pushes task deltas to live subscribers
type Publisher interface {
	Publish(ctx context.Context, key string, payload any)
}

// BulkResult is the per-item outcome of a bulk assignment
type BulkResult struct {
	Succeeded []uuid.UUID          `json:"succeeded"`
	Failed    map[uuid.UUID]string `json:"failed"`
}

// Engine reconciles automatic and manual assignment of action items and owns
// the task status machine. Every committed assignment change notifies the
// affected users and propagates to live views; both are best-effort and never
// roll back the assignment itself.
type Engine struct {
	items    repositories.ActionItemRepository
	teams    repositories.TeamRepository
	notifier Notifier
	rt       Publisher
	logger   *zap.Logger
}

// NewEngine constructs an assignment engine
func NewEngine(
	items repositories.ActionItemRepository,
	teams repositories.TeamRepository,
	notifier Notifier,
	rt Publisher,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		items:    items,
		teams:    teams,
		notifier: notifier,
		rt:       rt,
		logger:   logger,
	}
}

// AutoAssign materializes action items from extraction output plus the
// speaker-match map. Items whose owner label resolved with confidence at or
// above the threshold get an assignee; everything else is created unassigned.
// Unmatched or missing labels never block item creation.
func (e *Engine) AutoAssign(
	extraction *entities.ExtractionResult,
	speakerMap map[string]entities.SpeakerMatch,
	meetingID, summaryID uuid.UUID,
) []*entities.ActionItem {
	now := time.Now()
	items := make([]*entities.ActionItem, 0, len(extraction.ActionItems))

	for _, extracted := range extraction.ActionItems {
		item := entities.NewActionItem(meetingID, extracted.Description)
		item.SummaryID = &summaryID
		item.Priority = extracted.Priority
		item.Deadline = extracted.SuggestedDeadline

		if extracted.SuggestedOwnerLabel != "" {
			if match, ok := speakerMap[extracted.SuggestedOwnerLabel]; ok &&
				match.Matched() && match.Confidence >= AutoAssignThreshold {
				member := match.MatchedMember
				item.Assign(member.UserID, member.DisplayName, entities.AssignedBySystem, now)
			}
		}

		items = append(items, item)
	}

	return items
}

// ManualAssign overwrites the assignee of one item. Permitted when the acting
// user is a team admin, the item's current assignee, or the item is
// unassigned. The assignee must be an active member.
func (e *Engine) ManualAssign(ctx context.Context, itemID, assigneeMemberID, actingUserID uuid.UUID) error {
	item, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	assignee, err := e.teams.FindMemberByID(ctx, assigneeMemberID)
	if err != nil {
		return err
	}
	if !assignee.IsActive() {
		return entities.ErrMemberNotActive
	}

	if err := e.checkAssignPermission(ctx, item, assignee.TeamID, actingUserID); err != nil {
		return err
	}

	previousAssignee := item.AssigneeID

	item.Assign(assignee.UserID, assignee.DisplayName, actingUserID.String(), time.Now())
	item.Version++
	if err := e.items.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save assignment: %w", err)
	}

	e.notifyAssignment(ctx, item, assignee.UserID)
	e.publishTaskChange(ctx, item, previousAssignee)

	return nil
}

// BulkAssign applies ManualAssign per item independently; one failure never
// aborts the batch. The result reports each item's outcome.
func (e *Engine) BulkAssign(ctx context.Context, itemIDs []uuid.UUID, assigneeMemberID, actingUserID uuid.UUID) BulkResult {
	result := BulkResult{
		Succeeded: make([]uuid.UUID, 0, len(itemIDs)),
		Failed:    make(map[uuid.UUID]string),
	}

	for _, id := range itemIDs {
		if err := e.ManualAssign(ctx, id, assigneeMemberID, actingUserID); err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return result
}

// Unassign clears the assignee fields together
func (e *Engine) Unassign(ctx context.Context, itemID, actingUserID uuid.UUID) error {
	item, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	previousAssignee := item.AssigneeID

	item.Unassign()
	item.Version++
	if err := e.items.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save unassignment: %w", err)
	}

	e.publishTaskChange(ctx, item, previousAssignee)
	return nil
}

// UpdateStatus moves an item through pending ⇄ in_progress ⇄ completed. Any
// transition between known statuses is permitted in either direction; only
// the transition into completed produces a task_completed notification.
func (e *Engine) UpdateStatus(ctx context.Context, itemID uuid.UUID, newStatus string) error {
	if !entities.IsValidActionItemStatus(newStatus) {
		return fmt.Errorf("%w: %s", entities.ErrInvalidItemStatus, newStatus)
	}

	item, err := e.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	previousStatus := item.Status
	item.Status = newStatus
	item.Version++
	if err := e.items.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save status change: %w", err)
	}

	if newStatus == entities.ActionItemStatusCompleted &&
		previousStatus != entities.ActionItemStatusCompleted &&
		item.AssigneeID != nil {
		data := itemData(item)
		if _, err := e.notifier.Dispatch(ctx,
			entities.NotificationTaskCompleted,
			*item.AssigneeID,
			"Task completed",
			truncate(item.Description, 200),
			data,
		); err != nil && e.logger != nil {
			e.logger.Error("failed to dispatch completion notification",
				zap.String("item_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}

	e.publishTaskChange(ctx, item, item.AssigneeID)
	return nil
}

// SweepOverdue dispatches a deduped task_overdue notification for every
// assigned, unfinished item past its deadline. Dedup keys include the day so
// an item nags at most once per day, not once per sweep.
func (e *Engine) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	overdue, err := e.items.ListOverdue(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue items: %w", err)
	}

	notified := 0
	for _, item := range overdue {
		if !item.IsOverdue(now) || item.AssigneeID == nil {
			continue
		}

		eventID := fmt.Sprintf("%s:%s", item.ID, now.Format("2006-01-02"))
		n, err := e.notifier.DispatchDeduped(ctx,
			entities.NotificationTaskOverdue,
			*item.AssigneeID,
			"Task overdue",
			truncate(item.Description, 200),
			itemData(item),
			eventID,
		)
		if err != nil {
			if e.logger != nil {
				e.logger.Error("failed to dispatch overdue notification",
					zap.String("item_id", item.ID.String()),
					zap.Error(err),
				)
			}
			continue
		}
		if n != nil {
			notified++
		}
	}

	return notified, nil
}

// NotifyAssignments dispatches task_assignment notifications for freshly
// auto-assigned items. Used by the pipeline after the batch is persisted.
func (e *Engine) NotifyAssignments(ctx context.Context, items []*entities.ActionItem) {
	for _, item := range items {
		if item.AssigneeID == nil {
			continue
		}
		e.notifyAssignment(ctx, item, *item.AssigneeID)
		e.publishTaskChange(ctx, item, nil)
	}
}

// checkAssignPermission enforces the manual-assignment precondition
func (e *Engine) checkAssignPermission(ctx context.Context, item *entities.ActionItem, teamID, actingUserID uuid.UUID) error {
	if !item.IsAssigned() {
		return nil
	}
	if item.AssigneeID != nil && *item.AssigneeID == actingUserID {
		return nil
	}

	acting, err := e.teams.FindMemberByUser(ctx, teamID, actingUserID)
	if err != nil {
		return entities.ErrAssignmentNotAllowed
	}
	if !acting.IsAdmin() {
		return entities.ErrAssignmentNotAllowed
	}
	return nil
}

func (e *Engine) notifyAssignment(ctx context.Context, item *entities.ActionItem, recipientID uuid.UUID) {
	if e.notifier == nil {
		return
	}
	if _, err := e.notifier.Dispatch(ctx,
		entities.NotificationTaskAssignment,
		recipientID,
		"New task assigned",
		truncate(item.Description, 200),
		itemData(item),
	); err != nil && e.logger != nil {
		// Assignment already committed; notification delivery is advisory
		e.logger.Error("failed to dispatch assignment notification",
			zap.String("item_id", item.ID.String()),
			zap.Error(err),
		)
	}
}

// publishTaskChange pushes the updated item to the live task lists of both
// the new and previous assignee
func (e *Engine) publishTaskChange(ctx context.Context, item *entities.ActionItem, previousAssignee *uuid.UUID) {
	if e.rt == nil {
		return
	}
	if item.AssigneeID != nil {
		e.rt.Publish(ctx, realtime.TasksKey(*item.AssigneeID), item)
	}
	if previousAssignee != nil && (item.AssigneeID == nil || *previousAssignee != *item.AssigneeID) {
		e.rt.Publish(ctx, realtime.TasksKey(*previousAssignee), item)
	}
}

func itemData(item *entities.ActionItem) datatypes.JSON {
	b, err := json.Marshal(map[string]string{
		"item_id":    item.ID.String(),
		"meeting_id": item.MeetingID.String(),
	})
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(b)
}

// truncate cuts s to at most n runes. Cutting on a rune boundary keeps
// multi-byte descriptions valid UTF-8.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
