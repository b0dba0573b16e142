package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingdto "github.com/johnquangdev/meeting-taskflow/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-taskflow/internal/domain/repositories"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-taskflow/pkg/config"
)

// Meeting handles transcript processing and summary retrieval
type Meeting struct {
	cfg      *config.Config
	service  *pipeline.Service
	meetings repositories.MeetingRepository
	logger   *zap.Logger
}

// NewMeeting creates a meeting handler
func NewMeeting(cfg *config.Config, service *pipeline.Service, meetings repositories.MeetingRepository, logger *zap.Logger) *Meeting {
	return &Meeting{
		cfg:      cfg,
		service:  service,
		meetings: meetings,
		logger:   logger,
	}
}

// ProcessTranscript runs the full pipeline for one uploaded transcript
// POST /v1/meetings/process
func (h *Meeting) ProcessTranscript(c echo.Context) error {
	var req meetingdto.ProcessTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	actorID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid team ID")
	}

	result, err := h.service.ProcessTranscript(
		c.Request().Context(),
		req.Transcript, req.SourceFile, req.Title,
		teamID, actorID,
	)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusCreated, &meetingdto.ProcessTranscriptResponse{
		MeetingID:         result.MeetingID,
		SummaryID:         result.SummaryID,
		ItemCount:         result.ItemCount,
		AutoAssignedCount: result.AutoAssignedCount,
	})
}

// GetSummary returns the persisted summary for a meeting
// GET /v1/meetings/:id/summary
func (h *Meeting) GetSummary(c echo.Context) error {
	meetingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid meeting ID")
	}

	summary, err := h.meetings.FindSummaryByMeeting(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, http.StatusOK, meetingdto.ToSummaryResponse(summary))
}
