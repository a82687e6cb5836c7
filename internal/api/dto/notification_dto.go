package dto

import "time"

// NotificationResponse represents one notification record.
type NotificationResponse struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket_id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
