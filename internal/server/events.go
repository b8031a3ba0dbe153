package server

import (
	"skillswap/internal/middleware"
	"skillswap/internal/models"
	"skillswap/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// Notification event types delivered over per-user Redis channels.
const (
	EventSwapRequestReceived = "swap_request.received"
	EventSwapRequestAccepted = "swap_request.accepted"
	EventSwapRequestDeclined = "swap_request.declined"
	EventSwapFeedback        = "swap_request.feedback"
)

// publishSwapEvent notifies one user about a swap-request lifecycle change.
// Delivery is best-effort; a failed publish is logged and the request
// continues.
func (s *Server) publishSwapEvent(c *fiber.Ctx, userID string, eventType string, conn *models.Connection) {
	if s.notifier == nil || conn == nil {
		return
	}

	event := notifications.Event{
		Type: eventType,
		Data: map[string]interface{}{
			"swap_request_id": conn.ID,
			"from_user_id":    conn.FromUserID,
			"to_user_id":      conn.ToUserID,
			"status":          conn.Status,
		},
	}

	if err := s.notifier.PublishUser(c.UserContext(), userID, event); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to publish swap event",
			"event", eventType, "user_id", userID, "error", err.Error())
	}
}
