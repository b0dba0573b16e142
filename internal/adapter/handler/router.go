package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-taskflow/pkg/config"
	"github.com/johnquangdev/meeting-taskflow/pkg/jwt"
)

// Router holds all handlers
type Router struct {
	cfg                 *config.Config
	jwtManager          *jwt.Manager
	meetingHandler      *Meeting
	taskHandler         *Task
	notificationHandler *Notification
	streamHandler       *Stream
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	meetingHandler *Meeting,
	taskHandler *Task,
	notificationHandler *Notification,
	streamHandler *Stream,
) *Router {
	return &Router{
		cfg:                 cfg,
		jwtManager:          jwtManager,
		meetingHandler:      meetingHandler,
		taskHandler:         taskHandler,
		notificationHandler: notificationHandler,
		streamHandler:       streamHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group, everything below requires authentication
	v1 := e.Group("/v1", middleware.EchoAuth(rt.jwtManager))

	rt.setupMeetingRoutes(v1)
	rt.setupTaskRoutes(v1)
	rt.setupNotificationRoutes(v1)
}

// setupMeetingRoutes configures transcript processing routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetingGroup := g.Group("/meetings")

	meetingGroup.POST("/process", rt.meetingHandler.ProcessTranscript)
	meetingGroup.GET("/:id/summary", rt.meetingHandler.GetSummary)
	meetingGroup.GET("/:id/tasks", rt.taskHandler.ListByMeeting)
}

// setupTaskRoutes configures task assignment and status routes
func (rt *Router) setupTaskRoutes(g *echo.Group) {
	taskGroup := g.Group("/tasks")

	taskGroup.GET("", rt.taskHandler.ListMine)
	taskGroup.GET("/stream", rt.streamHandler.Tasks)
	taskGroup.POST("/bulk-assign", rt.taskHandler.BulkAssign)
	taskGroup.POST("/:id/assign", rt.taskHandler.Assign)
	taskGroup.DELETE("/:id/assignee", rt.taskHandler.Unassign)
	taskGroup.PATCH("/:id/status", rt.taskHandler.UpdateStatus)
}

// setupNotificationRoutes configures inbox and invitation routes
func (rt *Router) setupNotificationRoutes(g *echo.Group) {
	notifGroup := g.Group("/notifications")

	notifGroup.GET("", rt.notificationHandler.List)
	notifGroup.GET("/stream", rt.streamHandler.Notifications)
	notifGroup.POST("/read-all", rt.notificationHandler.MarkAllRead)
	notifGroup.POST("/:id/read", rt.notificationHandler.MarkRead)
	notifGroup.DELETE("/:id", rt.notificationHandler.Delete)

	invitationGroup := g.Group("/invitations")
	invitationGroup.POST("/:memberId/accept", rt.notificationHandler.AcceptInvitation)
	invitationGroup.POST("/:memberId/decline", rt.notificationHandler.DeclineInvitation)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
