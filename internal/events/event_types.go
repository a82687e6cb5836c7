package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketUpdated  EventType = "ticket_updated"
	EventTicketAssigned EventType = "ticket_assigned"
	EventTicketVoted    EventType = "ticket_voted"
)

// Event represents a domain event emitted after a ticket mutation
// commits. AuthorID and AssigneeID carry the recipient candidates so
// fan-out never has to re-read the ticket.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	TicketID   string    `json:"ticket_id"`
	ActorID    string    `json:"actor_id"`
	AuthorID   string    `json:"author_id"`
	AssigneeID *string   `json:"assignee_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
