package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
)

// TaskResponse represents an action item in API responses
type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	MeetingID    uuid.UUID  `json:"meeting_id"`
	Description  string     `json:"description"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	AssigneeID   *uuid.UUID `json:"assignee_id,omitempty"`
	AssigneeName *string    `json:"assignee_name,omitempty"`
	AssignedBy   *string    `json:"assigned_by,omitempty"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BulkAssignResponse represents the per-item outcome of a bulk assignment
type BulkAssignResponse struct {
	Succeeded []uuid.UUID          `json:"succeeded"`
	Failed    map[uuid.UUID]string `json:"failed"`
}

// ToTaskResponse converts an action item entity to its response shape
func ToTaskResponse(item *entities.ActionItem) *TaskResponse {
	return &TaskResponse{
		ID:           item.ID,
		MeetingID:    item.MeetingID,
		Description:  item.Description,
		Priority:     item.Priority,
		Status:       item.Status,
		AssigneeID:   item.AssigneeID,
		AssigneeName: item.AssigneeName,
		AssignedBy:   item.AssignedBy,
		AssignedAt:   item.AssignedAt,
		Deadline:     item.Deadline,
		Version:      item.Version,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// ToTaskResponses converts a slice of action items
func ToTaskResponses(items []*entities.ActionItem) []*TaskResponse {
	out := make([]*TaskResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToTaskResponse(item))
	}
	return out
}
