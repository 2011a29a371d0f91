package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	clientIDKey = "client_id"
	sessionKey  = "current_session"

	// ClientTokenHeader lets non-browser callers present the client token without cookies.
	ClientTokenHeader = "X-Client-Token"
)

// ClientMiddleware binds every request to a client namespace. A valid token from the cookie
// or header is reused; otherwise a fresh namespace is minted and returned to the caller.
type ClientMiddleware struct {
	tokens     *TokenManager
	cookieName string
	secure     bool
	logger     *zap.Logger
}

// NewClientMiddleware constructs middleware.
func NewClientMiddleware(tokens *TokenManager, cookieName string, secure bool, logger *zap.Logger) *ClientMiddleware {
	if cookieName == "" {
		cookieName = "ticketdesk_client"
	}
	return &ClientMiddleware{tokens: tokens, cookieName: cookieName, secure: secure, logger: logger}
}

// Handle resolves or issues the client identity.
func (m *ClientMiddleware) Handle(c *fiber.Ctx) error {
	raw := c.Get(ClientTokenHeader)
	if raw == "" {
		raw = c.Cookies(m.cookieName)
	}

	if raw != "" {
		if claims, err := m.tokens.ParseToken(raw); err == nil {
			c.Locals(clientIDKey, claims.ClientID)
			return c.Next()
		}
		m.logger.Debug("discarding invalid client token", zap.String("path", c.Path()))
	}

	clientID := uuid.NewString()
	token, expiresAt, err := m.tokens.GenerateToken(clientID)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Set(ClientTokenHeader, token)
	c.Locals(clientIDKey, clientID)
	return c.Next()
}

// ClientIDFromContext returns the client namespace bound by ClientMiddleware.
func ClientIDFromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(clientIDKey).(string)
	return id
}
