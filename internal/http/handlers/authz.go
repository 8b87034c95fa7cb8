package handlers

import (
	"strings"

	applog "pricewatch/internal/log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RequireAdminToken guards the sync-trigger endpoints with a bearer
// token checked against a bcrypt hash from config. An empty hash means
// no token was provisioned; the endpoints stay closed rather than open.
func RequireAdminToken(tokenHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenHash == "" {
			applog.Security(c, "access.denied.unconfigured", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "error": "admin access not configured"})
		}
		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if token == "" || bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)) != nil {
			applog.Security(c, "access.denied.admin", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "unauthorized"})
		}
		return c.Next()
	}
}
