package domain

import "time"

// Notification is a per-recipient record created by event fan-out.
// Read is the only mutable field and only ever flips false to true.
type Notification struct {
	ID        string
	UserID    string
	TicketID  string
	Message   string
	Read      bool
	CreatedAt time.Time
}
