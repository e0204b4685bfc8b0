package middleware

import (
	"context"
	"errors"
	"log"
	"strings"

	"skillbook/internal/core/authz"
	"skillbook/internal/core/domain"
	"skillbook/internal/pkg/jwt"
	"skillbook/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const (
	// AccessTokenCookie carries the bearer token for browser clients
	AccessTokenCookie = "access_token"
	// SessionCookie carries the server session id
	SessionCookie = "session_id"

	localPrincipal = "principal"
	localAuthError = "authError"
)

// Authenticator resolves credentials into the current principal
type Authenticator interface {
	ResolveToken(ctx context.Context, token string) (*domain.Principal, error)
	ResolveSession(ctx context.Context, sessionID string) (*domain.Principal, error)
}

// AuthMiddleware resolves whichever credential the request carries. It never
// rejects a request itself; Require decides based on the policy.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.Context()

		// 1. Authorization header, then access_token cookie
		if token := bearerToken(c); token != "" {
			principal, err := auth.ResolveToken(ctx, token)
			return next(c, principal, err)
		}

		// 2. Server session
		if sessionID := c.Cookies(SessionCookie); sessionID != "" {
			principal, err := auth.ResolveSession(ctx, sessionID)
			return next(c, principal, err)
		}

		return c.Next()
	}
}

func next(c *fiber.Ctx, principal *domain.Principal, err error) error {
	if err != nil {
		if !errors.Is(err, domain.ErrUnauthenticated) {
			log.Printf("❌ Credential lookup failed: %v", err)
			return response.InternalServerError(c, "Internal server error")
		}
		c.Locals(localAuthError, err)
		return c.Next()
	}
	c.Locals(localPrincipal, principal)
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return c.Cookies(AccessTokenCookie)
}

// Require allows the request only if the policy allows action for the caller
func Require(policy *authz.Policy, action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch policy.Authorize(GetPrincipal(c), action) {
		case authz.Allow:
			return c.Next()
		case authz.Forbidden:
			return response.Forbidden(c, "You don't have permission to access this resource")
		default:
			return response.Unauthorized(c, unauthenticatedMessage(c))
		}
	}
}

// GetPrincipal returns the authenticated caller, or nil for anonymous requests
func GetPrincipal(c *fiber.Ctx) *domain.Principal {
	principal, _ := c.Locals(localPrincipal).(*domain.Principal)
	return principal
}

func unauthenticatedMessage(c *fiber.Ctx) string {
	err, _ := c.Locals(localAuthError).(error)
	switch {
	case err == nil:
		return "Authentication required"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Access token expired"
	default:
		return "Invalid credentials"
	}
}
