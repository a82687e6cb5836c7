package dto

import "github.com/spec-kit/helpdesk/internal/domain"

// SLAPolicyResponse represents one SLA policy.
type SLAPolicyResponse struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Priority          domain.TicketPriority `json:"priority"`
	ResponseTimeMin   int                   `json:"response_time_min"`
	ResolutionTimeMin int                   `json:"resolution_time_min"`
}
