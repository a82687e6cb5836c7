package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	CategoryID  string                `json:"category_id"`
	AssigneeID  *string               `json:"assignee_id"`
}

// UpdateTicketRequest payload; nil fields stay untouched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	CategoryID  *string                `json:"category_id"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// VoteRequest payload.
type VoteRequest struct {
	Type string `json:"type"`
}

// TicketSummary response.
type TicketSummary struct {
	ID              string                `json:"id"`
	Title           string                `json:"title"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	CategoryID      string                `json:"category_id"`
	AuthorID        string                `json:"author_id"`
	AssigneeID      *string               `json:"assignee_id"`
	HelpfulCount    int64                 `json:"helpful_count"`
	NotHelpfulCount int64                 `json:"not_helpful_count"`
	ViewCount       int64                 `json:"view_count"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides the full projection with joined
// reference data.
type TicketDetailResponse struct {
	TicketSummary
	Description  string  `json:"description"`
	CategoryName string  `json:"category_name"`
	AuthorName   string  `json:"author_name"`
	AssigneeName *string `json:"assignee_name"`
}
