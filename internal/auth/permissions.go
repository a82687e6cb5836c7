package auth

import (
	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// permissionTable is the single source of truth mapping each role to its
// permission set. Lookups are total: an unknown role resolves to the
// empty set, never an error.
var permissionTable = map[domain.Role][]domain.Permission{
	domain.RoleEndUser: {
		domain.PermTicketCreate,
		domain.PermTicketView,
		domain.PermTicketVote,
		domain.PermNotificationRead,
	},
	domain.RoleAgent: {
		domain.PermTicketCreate,
		domain.PermTicketView,
		domain.PermTicketViewAll,
		domain.PermTicketUpdate,
		domain.PermTicketVote,
		domain.PermSLAView,
		domain.PermNotificationRead,
	},
	domain.RoleTeamLead: {
		domain.PermTicketCreate,
		domain.PermTicketView,
		domain.PermTicketViewAll,
		domain.PermTicketUpdate,
		domain.PermTicketAssign,
		domain.PermTicketVote,
		domain.PermSLAView,
		domain.PermMetricsView,
		domain.PermNotificationRead,
	},
	domain.RoleAdmin: {
		domain.PermTicketCreate,
		domain.PermTicketView,
		domain.PermTicketViewAll,
		domain.PermTicketUpdate,
		domain.PermTicketAssign,
		domain.PermTicketVote,
		domain.PermTicketDelete,
		domain.PermSLAView,
		domain.PermMetricsView,
		domain.PermAuditView,
		domain.PermNotificationRead,
	},
}

// PermissionsForRole returns the permission set for a role. Unknown roles
// get an empty set.
func PermissionsForRole(role domain.Role) map[domain.Permission]struct{} {
	perms := permissionTable[role]
	set := make(map[domain.Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Authorizer decides whether a principal may perform an action. It is a
// pure function of (role, required permissions) over the static table.
type Authorizer struct{}

// NewAuthorizer constructs the authorizer.
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// Authorize allows the request only when the principal is present and its
// role holds every required permission. An empty requirement list means
// "authenticated only". The decision is deny-by-default.
func (a *Authorizer) Authorize(principal *domain.Principal, required ...domain.Permission) error {
	if principal == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}
	if len(required) == 0 {
		return nil
	}
	held := PermissionsForRole(principal.Role)
	for _, perm := range required {
		if _, ok := held[perm]; !ok {
			return apperrors.NewForbidden("missing permission " + string(perm))
		}
	}
	return nil
}

// CanViewAllTickets is shorthand for the ticket:view:all check.
func (a *Authorizer) CanViewAllTickets(principal *domain.Principal) bool {
	return a.Authorize(principal, domain.PermTicketViewAll) == nil
}

// CanViewPerformanceMetrics is shorthand for the metrics:view check.
func (a *Authorizer) CanViewPerformanceMetrics(principal *domain.Principal) bool {
	return a.Authorize(principal, domain.PermMetricsView) == nil
}
