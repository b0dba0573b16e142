package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-taskflow/internal/infrastructure/realtime"
	"github.com/johnquangdev/meeting-taskflow/internal/usecase/pipeline"
)

// streamBuffer bounds how many events a slow client can fall behind before
// the stream degrades
const streamBuffer = 64

// Stream serves live task and inbox views over Server-Sent Events
type Stream struct {
	service *pipeline.Service
	logger  *zap.Logger
}

// NewStream creates a stream handler
func NewStream(service *pipeline.Service, logger *zap.Logger) *Stream {
	return &Stream{
		service: service,
		logger:  logger,
	}
}

// Tasks streams the authenticated user's task list: one snapshot, then
// ordered deltas
// GET /v1/tasks/stream
func (h *Stream) Tasks(c echo.Context) error {
	return h.stream(c, h.service.SubscribeToUserTasks)
}

// Notifications streams the authenticated user's inbox
// GET /v1/notifications/stream
func (h *Stream) Notifications(c echo.Context) error {
	return h.stream(c, h.service.SubscribeToUserNotifications)
}

type subscribeFunc func(ctx context.Context, userID uuid.UUID, cb realtime.Callback) (func(), error)

func (h *Stream) stream(c echo.Context, subscribe subscribeFunc) error {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()

	// Hub callbacks must not block, so delivery goes through a buffered
	// channel drained by this request goroutine. A client too slow to keep
	// up gets an error event and a reconnect hint instead of stalling the
	// publisher.
	events := make(chan realtime.Event, streamBuffer)
	overflow := make(chan struct{}, 1)

	unsubscribe, err := subscribe(ctx, userID, func(ev realtime.Event) {
		select {
		case events <- ev:
		default:
			select {
			case overflow <- struct{}{}:
			default:
			}
		}
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-overflow:
			writeSSE(res, realtime.Event{
				Kind: realtime.EventError,
				Err:  "client too slow, events dropped; reconnect for a fresh snapshot",
			})
			return nil
		case ev := <-events:
			if err := writeSSE(res, ev); err != nil {
				if h.logger != nil {
					h.logger.Debug("stream write failed, closing",
						zap.String("user_id", userID.String()),
						zap.Error(err),
					)
				}
				return nil
			}
		}
	}
}

func writeSSE(res *echo.Response, ev realtime.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
