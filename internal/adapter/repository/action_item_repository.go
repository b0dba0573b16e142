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

type actionItemRepository struct {
	db *gorm.DB
}

// NewActionItemRepository creates a new action item repository backed by GORM
func NewActionItemRepository(db *gorm.DB) repo.ActionItemRepository {
	return &actionItemRepository{db: db}
}

func (r *actionItemRepository) Save(ctx context.Context, item *entities.ActionItem) error {
	// Upsert by id; version bumps on every mutation so concurrent writers
	// are at least visible even though last-write-wins remains the policy.
	q := `INSERT INTO action_items (id, meeting_id, summary_id, description, priority, status, assignee_id, assignee_name, assigned_by, assigned_at, deadline, version, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW())
        ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, priority = EXCLUDED.priority, assignee_id = EXCLUDED.assignee_id, assignee_name = EXCLUDED.assignee_name, assigned_by = EXCLUDED.assigned_by, assigned_at = EXCLUDED.assigned_at, deadline = EXCLUDED.deadline, version = action_items.version + 1, updated_at = NOW()`

	return r.db.WithContext(ctx).Exec(q,
		item.ID, item.MeetingID, item.SummaryID, item.Description, item.Priority,
		item.Status, item.AssigneeID, item.AssigneeName, item.AssignedBy,
		item.AssignedAt, item.Deadline, item.Version, time.Now(),
	).Error
}

func (r *actionItemRepository) SaveBatch(ctx context.Context, items []*entities.ActionItem) error {
	for _, it := range items {
		if err := r.Save(ctx, it); err != nil {
			return err
		}
	}
	return nil
}

func (r *actionItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ActionItem, error) {
	var item entities.ActionItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrActionItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *actionItemRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *actionItemRepository) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("assignee_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *actionItemRepository) ListOverdue(ctx context.Context) ([]*entities.ActionItem, error) {
	var items []*entities.ActionItem
	err := r.db.WithContext(ctx).
		Where("deadline IS NOT NULL AND deadline < NOW() AND status <> ? AND assignee_id IS NOT NULL", entities.ActionItemStatusCompleted).
		Find(&items).Error
	return items, err
}

func (r *actionItemRepository) DeleteByMeeting(ctx context.Context, meetingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&entities.ActionItem{}).Error
}
