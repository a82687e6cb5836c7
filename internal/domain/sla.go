package domain

// SLAPolicy is read-only reference data gated behind sla:view.
type SLAPolicy struct {
	ID                string
	Name              string
	Priority          TicketPriority
	ResponseTimeMin   int
	ResolutionTimeMin int
}
