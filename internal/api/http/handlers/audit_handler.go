package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/audit"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/store"
)

// AuditHandler serves filtered history queries.
type AuditHandler struct {
	log *audit.Log
}

// NewAuditHandler constructs handler.
func NewAuditHandler(log *audit.Log) *AuditHandler {
	return &AuditHandler{log: log}
}

// Query GET /audit. Query params map onto the filter struct; every set
// param must match.
func (h *AuditHandler) Query(c *fiber.Ctx) error {
	filter := store.HistoryFilter{}
	if userID := c.Query("user_id"); userID != "" {
		filter.UserID = &userID
	}
	if action := c.Query("action"); action != "" {
		a := domain.HistoryAction(action)
		filter.Action = &a
	}
	if ticketID := c.Query("ticket_id"); ticketID != "" {
		filter.TicketID = &ticketID
	}
	limit := parseInt(c.Query("limit"), audit.MaxQueryLimit)

	entries, err := h.log.Query(c.UserContext(), filter, limit)
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.HistoryEntryResponse{
			ID:        entry.ID,
			TicketID:  entry.TicketID,
			UserID:    entry.UserID,
			Action:    entry.Action,
			Details:   entry.Details,
			CreatedAt: entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}
