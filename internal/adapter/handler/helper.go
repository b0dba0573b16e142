package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-taskflow/errors"
	"github.com/johnquangdev/meeting-taskflow/internal/domain/entities"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/extraction"
)

// Response shapes
type success struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Info    string      `json:"info,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := success{
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps usecase and domain failures onto the HTTP error surface
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var extErr *extraction.ExtractionError
	if stdErrors.As(err, &extErr) {
		switch extErr.Reason {
		case extraction.ReasonRejectedInput:
			return errors.ErrTranscriptRejected(extErr.Error())
		case extraction.ReasonTransientExhausted:
			return errors.ErrAIServiceUnavailable()
		default:
			return errors.ErrExtractionFailed(err)
		}
	}

	switch {
	case stdErrors.Is(err, entities.ErrMemberNotFound):
		return errors.ErrNotFound("Team member")
	case stdErrors.Is(err, entities.ErrTeamNotFound):
		return errors.ErrNotFound("Team")
	case stdErrors.Is(err, entities.ErrMeetingNotFound):
		return errors.ErrNotFound("Meeting")
	case stdErrors.Is(err, entities.ErrActionItemNotFound):
		return errors.ErrNotFound("Action item")
	case stdErrors.Is(err, entities.ErrNotificationNotFound):
		return errors.ErrNotFound("Notification")
	case stdErrors.Is(err, entities.ErrMemberNotActive),
		stdErrors.Is(err, entities.ErrEmptyRecipient),
		stdErrors.Is(err, entities.ErrInvalidRequest):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrInvalidItemStatus):
		return errors.ErrInvalidStatus(err.Error())
	case stdErrors.Is(err, entities.ErrUnknownNotificationType):
		return errors.ErrInvalidNotificationType(err.Error())
	case stdErrors.Is(err, entities.ErrAssignmentNotAllowed):
		return errors.ErrPermissionDenied("assign this task")
	case stdErrors.Is(err, entities.ErrForbidden):
		return errors.ErrPermissionDenied("perform this action")
	case stdErrors.Is(err, entities.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, entities.ErrInvitationNotPending):
		return errors.AppError{
			Raw:      err,
			HTTPCode: http.StatusConflict,
			Code:     errors.ErrorCode_ALREADY_EXISTS,
			Message:  "Invitation already settled",
		}
	}

	return errors.ErrInternal(err)
}
