package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/notify"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// NotificationsHandler serves the recipient-facing notification API.
type NotificationsHandler struct {
	fanout *notify.Fanout
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(fanout *notify.Fanout) *NotificationsHandler {
	return &NotificationsHandler{fanout: fanout}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	limit := parseInt(c.Query("limit"), 50)
	notifications, err := h.fanout.ListForUser(c.UserContext(), principal.UserID, limit)
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:        n.ID,
			TicketID:  n.TicketID,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if err := h.fanout.MarkRead(c.UserContext(), c.Params("id"), principal.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"read": true}})
}
