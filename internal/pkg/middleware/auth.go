package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/influxity/influxity/internal/pkg/security"
)

// LocalsUserKey is where RequireAuth stores the validated claims.
const LocalsUserKey = "user"

// RequireAuth validates the bearer token and stores its claims in locals.
// API routes return JSON 401 instead of a redirect.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Missing or invalid authentication",
			})
		}

		claims, err := security.ValidateToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":   "unauthorized",
				"message": "Missing or invalid authentication",
			})
		}

		c.Locals(LocalsUserKey, claims)
		return c.Next()
	}
}

// Claims returns the authenticated claims set by RequireAuth, or nil.
func Claims(c *fiber.Ctx) *security.Claims {
	claims, _ := c.Locals(LocalsUserKey).(*security.Claims)
	return claims
}
