package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
	TicketPriorityUrgent TicketPriority = "URGENT"
)

// VoteType is the closed set of feedback votes a ticket accepts.
type VoteType string

const (
	VoteHelpful    VoteType = "helpful"
	VoteNotHelpful VoteType = "notHelpful"
)

// ValidVoteType reports whether v belongs to the enumerated vote set.
func ValidVoteType(v VoteType) bool {
	return v == VoteHelpful || v == VoteNotHelpful
}

// Ticket is the aggregate for support requests. The three counters are
// monotonically increasing and mutated only through atomic store deltas.
type Ticket struct {
	ID              string
	Title           string
	Description     string
	Status          TicketStatus
	Priority        TicketPriority
	CategoryID      string
	AuthorID        string
	AssigneeID      *string
	HelpfulCount    int64
	NotHelpfulCount int64
	ViewCount       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Category is read-only reference data joined into ticket projections.
type Category struct {
	ID   string
	Name string
}

// TicketProjection is the ticket enriched with the joined reference data
// callers render (category and author names).
type TicketProjection struct {
	Ticket
	CategoryName string
	AuthorName   string
	AssigneeName *string
}
