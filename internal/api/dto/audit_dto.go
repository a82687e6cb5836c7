package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// HistoryEntryResponse represents one audit record.
type HistoryEntryResponse struct {
	ID        string               `json:"id"`
	TicketID  string               `json:"ticket_id"`
	UserID    string               `json:"user_id"`
	Action    domain.HistoryAction `json:"action"`
	Details   map[string]any       `json:"details,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}
