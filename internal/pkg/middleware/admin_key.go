package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/DanielKramer/PropNest/internal/pkg/constants"
	"github.com/DanielKramer/PropNest/internal/pkg/env"
)

// RequireAdminKey authenticates requests carrying the operator admin key.
// The key comes from the ADMIN_API_KEY env var; an empty key disables the
// protected routes entirely.
func RequireAdminKey(c *fiber.Ctx) error {
	expected := env.GetEnv("ADMIN_API_KEY", "")
	if expected == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Not found"})
	}

	provided := extractAdminKeyFromHeader(c)
	if provided == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing admin key"})
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid admin key"})
	}

	return c.Next()
}

func extractAdminKeyFromHeader(c *fiber.Ctx) string {
	key := strings.TrimSpace(c.Get(constants.AdminKeyHeader))
	if key != "" {
		return key
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
