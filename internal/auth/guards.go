package auth

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/domain"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

// SessionResolver is implemented by the auth service.
type SessionResolver interface {
	CurrentSession(ctx context.Context, clientID string) (*domain.CurrentSession, error)
	EnsureAuth(ctx context.Context, clientID string) (bool, error)
	EnsureGuest(ctx context.Context, clientID string) (bool, error)
}

// Redirect targets.
const (
	loginPath     = "/auth/login"
	dashboardPath = "/dashboard"
)

// RequireSession rejects clients without a valid session and stores the session for handlers.
func RequireSession(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := ClientIDFromContext(c)
		ok, err := resolver.EnsureAuth(c.UserContext(), clientID)
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewRedirect("SESSION_REQUIRED", "Your session has expired. Please log in again.", loginPath, http.StatusUnauthorized)
		}
		current, err := resolver.CurrentSession(c.UserContext(), clientID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperrors.NewRedirect("SESSION_REQUIRED", "Your session has expired. Please log in again.", loginPath, http.StatusUnauthorized)
		}
		c.Locals(sessionKey, current)
		return c.Next()
	}
}

// RequireGuest sends signed-in clients to the dashboard instead of re-authenticating.
func RequireGuest(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ok, err := resolver.EnsureGuest(c.UserContext(), ClientIDFromContext(c))
		if err != nil {
			return err
		}
		if !ok {
			return apperrors.NewRedirect("ALREADY_AUTHENTICATED", "already signed in", dashboardPath, http.StatusConflict)
		}
		return c.Next()
	}
}

// SessionFromContext retrieves the session stored by RequireSession.
func SessionFromContext(c *fiber.Ctx) (*domain.CurrentSession, bool) {
	current, ok := c.Locals(sessionKey).(*domain.CurrentSession)
	return current, ok && current != nil
}
