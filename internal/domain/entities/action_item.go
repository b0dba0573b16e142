package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActionItemStatus constants
const (
	ActionItemStatusPending    = "pending"
	ActionItemStatusInProgress = "in_progress"
	ActionItemStatusCompleted  = "completed"
)

// IsValidActionItemStatus reports whether s is a known status
func IsValidActionItemStatus(s string) bool {
	switch s {
	case ActionItemStatusPending, ActionItemStatusInProgress, ActionItemStatusCompleted:
		return true
	}
	return false
}

// AssignedBySystem marks assignments made automatically from speaker matching
const AssignedBySystem = "system"

// ActionItem is a task materialized from a meeting. Items may be created
// unassigned when no speaker resolved with enough confidence; they stay
// visible for manual triage rather than blocking processing.
type ActionItem struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID    uuid.UUID  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	SummaryID    *uuid.UUID `json:"summary_id,omitempty" gorm:"type:uuid;index"`
	Description  string     `json:"description" gorm:"type:text;not null"`
	Priority     string     `json:"priority" gorm:"type:varchar(20);default:'medium'"`
	Status       string     `json:"status" gorm:"type:varchar(20);default:'pending'"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty" gorm:"type:uuid;index"`
	AssigneeName *string    `json:"assignee_name,omitempty" gorm:"type:varchar(255)"`
	AssignedBy   *string    `json:"assigned_by,omitempty" gorm:"type:varchar(255)"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Version      int        `json:"version" gorm:"default:1"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for ActionItem
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates an unassigned pending item
func NewActionItem(meetingID uuid.UUID, description string) *ActionItem {
	return &ActionItem{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
		Priority:    ItemPriorityMedium,
		Status:      ActionItemStatusPending,
		Version:     1,
	}
}

// Assign sets the assignee fields together. ID and name always move as a
// pair; an item never carries one without the other.
func (a *ActionItem) Assign(assigneeID uuid.UUID, assigneeName, assignedBy string, at time.Time) {
	a.AssigneeID = &assigneeID
	a.AssigneeName = &assigneeName
	a.AssignedBy = &assignedBy
	a.AssignedAt = &at
}

// Unassign clears all assignee fields
func (a *ActionItem) Unassign() {
	a.AssigneeID = nil
	a.AssigneeName = nil
	a.AssignedBy = nil
	a.AssignedAt = nil
}

// IsAssigned reports whether the item has an assignee
func (a *ActionItem) IsAssigned() bool {
	return a.AssigneeID != nil
}

// IsOverdue reports whether an assigned, unfinished item is past its deadline
func (a *ActionItem) IsOverdue(now time.Time) bool {
	return a.Deadline != nil &&
		a.Status != ActionItemStatusCompleted &&
		a.IsAssigned() &&
		now.After(*a.Deadline)
}
