package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-taskflow/internal/adapter/dto/common"
	taskdto "github.com/johnquangdev/meeting-taskflow/internal/adapter/dto/task"
	"github.com/johnquangdev/meeting-taskflow/internal/domain/repositories"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/assignment"
)

// Task handles action item assignment and status changes
type Task struct {
	engine *assignment.Engine
	items  repositories.ActionItemRepository
	logger *zap.Logger
}

// NewTask creates a task handler
func NewTask(engine *assignment.Engine, items repositories.ActionItemRepository, logger *zap.Logger) *Task {
	return &Task{
		engine: engine,
		items:  items,
		logger: logger,
	}
}

// ListMine returns the authenticated user's tasks, optionally filtered by
// status or priority
// GET /v1/tasks
func (h *Task) ListMine(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req taskdto.ListTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items, err := h.items.ListByAssignee(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	filtered := items[:0]
	for _, item := range items {
		if req.Status != "" && item.Status != req.Status {
			continue
		}
		if req.Priority != "" && item.Priority != req.Priority {
			continue
		}
		filtered = append(filtered, item)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &common.ListResponse{
		Data:  taskdto.ToTaskResponses(filtered),
		Total: len(filtered),
	})
}

// ListByMeeting returns all tasks materialized from one meeting
// GET /v1/meetings/:id/tasks
func (h *Task) ListByMeeting(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid meeting ID")
	}

	items, err := h.items.ListByMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &common.ListResponse{
		Data:  taskdto.ToTaskResponses(items),
		Total: len(items),
	})
}

// Assign sets the assignee of one task
// POST /v1/tasks/:id/assign
func (h *Task) Assign(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req taskdto.AssignTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actingUserID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	assigneeMemberID, err := uuid.Parse(req.AssigneeMemberID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid assignee member ID")
	}

	if err := h.engine.ManualAssign(c.Request().Context(), itemID, assigneeMemberID, actingUserID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// BulkAssign assigns several tasks to one member; failures are reported
// per item and never abort the batch
// POST /v1/tasks/bulk-assign
func (h *Task) BulkAssign(c echo.Context) error {
	var req taskdto.BulkAssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actingUserID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	assigneeMemberID, err := uuid.Parse(req.AssigneeMemberID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid assignee member ID")
	}

	itemIDs := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID: "+raw)
		}
		itemIDs = append(itemIDs, id)
	}

	result := h.engine.BulkAssign(c.Request().Context(), itemIDs, assigneeMemberID, actingUserID)

	return HandleSuccess(h.logger, c, http.StatusOK, &taskdto.BulkAssignResponse{
		Succeeded: result.Succeeded,
		Failed:    result.Failed,
	})
}

// Unassign clears the assignee of one task
// DELETE /v1/tasks/:id/assignee
func (h *Task) Unassign(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	actingUserID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.engine.Unassign(c.Request().Context(), itemID, actingUserID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// UpdateStatus moves a task through its status machine
// PATCH /v1/tasks/:id/status
func (h *Task) UpdateStatus(c echo.Context) error {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task ID")
	}

	var req taskdto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.engine.UpdateStatus(c.Request().Context(), itemID, req.Status); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}
