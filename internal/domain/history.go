package domain

import "time"

// HistoryAction captures what kind of change a history entry records.
type HistoryAction string

const (
	ActionCreate HistoryAction = "create"
	ActionUpdate HistoryAction = "update"
	ActionAssign HistoryAction = "assign"
	ActionStatus HistoryAction = "status"
	ActionVote   HistoryAction = "vote"
	ActionView   HistoryAction = "view"
	ActionDelete HistoryAction = "delete"
)

// HistoryEntry is an immutable audit record of one action taken on a
// ticket. Entries are append-only: nothing in the service mutates or
// removes one once written.
type HistoryEntry struct {
	ID        string
	TicketID  string
	UserID    string
	Action    HistoryAction
	Details   map[string]any
	CreatedAt time.Time
}
