package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireAuth rejects requests that JWTUidOnly did not authenticate.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := UIDObjectID(c); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "not authorized, no token")
		}
		return c.Next()
	}
}
