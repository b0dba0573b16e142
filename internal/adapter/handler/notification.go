package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-taskflow/internal/adapter/dto/common"
	notifdto "github.com/johnquangdev/meeting-taskflow/internal/adapter/dto/notification"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/notification"
)

// Notification handles inbox reads, read-state transitions and invitation
// responses
type Notification struct {
	dispatcher *notification.Dispatcher
	logger     *zap.Logger
}

// NewNotification creates a notification handler
func NewNotification(dispatcher *notification.Dispatcher, logger *zap.Logger) *Notification {
	return &Notification{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// List returns the authenticated user's inbox, newest first
// GET /v1/notifications
func (h *Notification) List(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req notifdto.ListNotificationsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	list, err := h.dispatcher.ListForUser(c.Request().Context(), userID, req.UnreadOnly)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, &common.ListResponse{
		Data:  notifdto.ToNotificationResponses(list),
		Total: len(list),
	})
}

// MarkRead marks one of the caller's notifications as read
// POST /v1/notifications/:id/read
func (h *Notification) MarkRead(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.dispatcher.MarkRead(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// MarkAllRead marks the whole inbox as read
// POST /v1/notifications/read-all
func (h *Notification) MarkAllRead(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	if err := h.dispatcher.MarkAllRead(c.Request().Context(), userID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// Delete removes one of the caller's notifications
// DELETE /v1/notifications/:id
func (h *Notification) Delete(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}

	if err := h.dispatcher.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// AcceptInvitation settles a pending team invitation as accepted. Only the
// invited user can settle it.
// POST /v1/invitations/:memberId/accept
func (h *Notification) AcceptInvitation(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid member ID")
	}

	if err := h.dispatcher.AcceptInvitation(c.Request().Context(), memberID, userID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}

// DeclineInvitation settles a pending team invitation as declined
// POST /v1/invitations/:memberId/decline
func (h *Notification) DeclineInvitation(c echo.Context) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid member ID")
	}

	if err := h.dispatcher.DeclineInvitation(c.Request().Context(), memberID, userID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, nil)
}
