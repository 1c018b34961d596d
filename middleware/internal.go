package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"badminton-community-system/logging"
)

// InternalAuth guards the service-to-service endpoints. Callers must present
// the shared token in X-Internal-Token; there is no user identity on these
// routes.
func InternalAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Internal-Token")
		if got == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-Internal-Token header",
			})
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			logging.L().Warn("rejected internal caller",
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid internal service token",
			})
		}
		return c.Next()
	}
}
