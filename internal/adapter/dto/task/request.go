package task

// AssignTaskRequest represents the request to assign one task
type AssignTaskRequest struct {
	AssigneeMemberID string `json:"assignee_member_id" validate:"required,uuid"`
}

// BulkAssignRequest represents the request to assign several tasks at once
type BulkAssignRequest struct {
	ItemIDs          []string `json:"item_ids" validate:"required,min=1,max=100,dive,uuid"`
	AssigneeMemberID string   `json:"assignee_member_id" validate:"required,uuid"`
}

// UpdateStatusRequest represents the request to move a task through its
// status machine
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,taskstatus"`
}

// ListTasksRequest represents query parameters for listing a user's tasks
type ListTasksRequest struct {
	Status   string `query:"status" validate:"omitempty,taskstatus"`
	Priority string `query:"priority" validate:"omitempty,taskpriority"`
}
