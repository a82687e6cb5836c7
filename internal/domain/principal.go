package domain

// Role enumerates the fixed user categories. A role is assigned at
// registration and immutable afterwards.
type Role string

const (
	RoleEndUser  Role = "END_USER"
	RoleAgent    Role = "AGENT"
	RoleTeamLead Role = "TEAM_LEAD"
	RoleAdmin    Role = "ADMIN"
)

// Permission names an atomic capability governing one class of action.
type Permission string

const (
	PermTicketCreate     Permission = "ticket:create"
	PermTicketView       Permission = "ticket:view"
	PermTicketViewAll    Permission = "ticket:view:all"
	PermTicketUpdate     Permission = "ticket:update"
	PermTicketAssign     Permission = "ticket:assign"
	PermTicketVote       Permission = "ticket:vote"
	PermTicketDelete     Permission = "ticket:delete"
	PermSLAView          Permission = "sla:view"
	PermMetricsView      Permission = "metrics:view"
	PermAuditView        Permission = "audit:view"
	PermNotificationRead Permission = "notification:read"
)

// Principal is the authenticated identity derived from a verified token.
// It is request-scoped and never persisted; id and role come verbatim
// from the token claims.
type Principal struct {
	UserID string
	Role   Role
}
