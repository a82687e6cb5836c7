package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and stores the Principal for the
// request. The principal is built from claims alone; the user store is
// never consulted here, so a role change only takes effect once the old
// token expires.
type AuthMiddleware struct {
	tokens     *TokenManager
	authorizer *Authorizer
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, authorizer *Authorizer) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, authorizer: authorizer}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid authorization header")
	}

	principal, err := m.tokens.Verify(parts[1])
	if err != nil {
		return apperrors.NewUnauthenticated("invalid token")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// RequirePermissions gates a route on the permission table. All listed
// permissions must be held.
func (m *AuthMiddleware) RequirePermissions(required ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := m.authorizer.Authorize(principal, required...); err != nil {
			return err
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Principal)
	return principal, ok
}
