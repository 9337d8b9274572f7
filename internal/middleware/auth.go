package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/flowershop/internal/session"
)

const (
	userContextKey  = "currentUserID"
	tokenContextKey = "currentToken"
)

// AuthMiddleware resolves the session token from the Authorization header
// and loads the authenticated user ID into context.
func AuthMiddleware(sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("Authorization")
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		// Clients may send the raw token or "Bearer <token>".
		token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

		userID, ok := sessions.Resolve(token)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
		}

		c.Locals(userContextKey, userID)
		c.Locals(tokenContextKey, token)
		return c.Next()
	}
}

// GetCurrentUserID extracts the authenticated user ID from context.
func GetCurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return uuid.Nil, false
	}

	if id, ok := value.(uuid.UUID); ok {
		return id, true
	}

	return uuid.Nil, false
}

// GetCurrentToken extracts the presented session token from context.
func GetCurrentToken(c *fiber.Ctx) (string, bool) {
	value := c.Locals(tokenContextKey)
	if value == nil {
		return "", false
	}

	if token, ok := value.(string); ok {
		return token, true
	}

	return "", false
}
