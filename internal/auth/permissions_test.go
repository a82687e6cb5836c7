package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

func TestAuthorize(t *testing.T) {
	authorizer := NewAuthorizer()

	testCases := []struct {
		name      string
		principal *domain.Principal
		required  []domain.Permission
		wantCode  string
	}{
		{
			name:      "nil principal is unauthenticated",
			principal: nil,
			required:  []domain.Permission{domain.PermTicketView},
			wantCode:  "UNAUTHENTICATED",
		},
		{
			name:      "empty requirements means authenticated only",
			principal: &domain.Principal{UserID: "u1", Role: domain.RoleEndUser},
		},
		{
			name:      "end user may vote",
			principal: &domain.Principal{UserID: "u1", Role: domain.RoleEndUser},
			required:  []domain.Permission{domain.PermTicketVote},
		},
		{
			name:      "end user may not view sla",
			principal: &domain.Principal{UserID: "u1", Role: domain.RoleEndUser},
			required:  []domain.Permission{domain.PermSLAView},
			wantCode:  "FORBIDDEN",
		},
		{
			name:      "conjunctive check fails when one permission is missing",
			principal: &domain.Principal{UserID: "u2", Role: domain.RoleTeamLead},
			required:  []domain.Permission{domain.PermTicketAssign, domain.PermAuditView},
			wantCode:  "FORBIDDEN",
		},
		{
			name:      "admin holds every permission",
			principal: &domain.Principal{UserID: "u3", Role: domain.RoleAdmin},
			required:  []domain.Permission{domain.PermTicketDelete, domain.PermAuditView, domain.PermMetricsView},
		},
		{
			name:      "unknown role resolves to the empty set",
			principal: &domain.Principal{UserID: "u4", Role: domain.Role("GHOST")},
			required:  []domain.Permission{domain.PermTicketView},
			wantCode:  "FORBIDDEN",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// repeated calls must return the same decision with no state change
			for i := 0; i < 3; i++ {
				err := authorizer.Authorize(tc.principal, tc.required...)
				if tc.wantCode == "" {
					assert.NoError(t, err)
				} else {
					assert.True(t, apperrors.IsCode(err, tc.wantCode), "want %s, got %v", tc.wantCode, err)
				}
			}
		})
	}
}

func TestCapabilityShorthands(t *testing.T) {
	authorizer := NewAuthorizer()

	endUser := &domain.Principal{UserID: "u1", Role: domain.RoleEndUser}
	agent := &domain.Principal{UserID: "u2", Role: domain.RoleAgent}
	lead := &domain.Principal{UserID: "u3", Role: domain.RoleTeamLead}

	assert.False(t, authorizer.CanViewAllTickets(endUser))
	assert.True(t, authorizer.CanViewAllTickets(agent))

	assert.False(t, authorizer.CanViewPerformanceMetrics(agent))
	assert.True(t, authorizer.CanViewPerformanceMetrics(lead))

	assert.False(t, authorizer.CanViewAllTickets(nil))
	assert.False(t, authorizer.CanViewPerformanceMetrics(nil))
}

func TestPermissionsForRoleUnknownRoleIsEmpty(t *testing.T) {
	assert.Empty(t, PermissionsForRole(domain.Role("NOPE")))
}
