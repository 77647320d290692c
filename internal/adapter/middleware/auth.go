package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/JuborajSujon/mfs-backend/internal/core/security"
)

// IdentityKey is where Protected stores the authenticated account
// email in the request locals.
const IdentityKey = "identity"

// KeyResolver maps a hashed API key to the owning account's email.
type KeyResolver interface {
	ResolveAPIKey(ctx context.Context, keyHash string) (string, error)
}

// Protected authenticates requests by bearer API key. Only the SHA256
// hash of the key is ever compared against the store.
func Protected(resolver KeyResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing API Key"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid Header Format"})
		}

		email, err := resolver.ResolveAPIKey(c.Context(), security.HashKey(parts[1]))
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API Key"})
		}

		c.Locals(IdentityKey, email)
		return c.Next()
	}
}

// Identity returns the authenticated email set by Protected.
func Identity(c *fiber.Ctx) string {
	email, _ := c.Locals(IdentityKey).(string)
	return email
}
