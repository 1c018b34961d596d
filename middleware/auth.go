package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"badminton-community-system/logging"
	"badminton-community-system/services"
)

// UserContext verifies the Bearer session token and attaches the caller's
// user id to the request context. Everything behind it can trust
// c.Locals("user_id").
func UserContext(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header must be a Bearer token",
			})
		}

		userID, err := sessions.Verify(token)
		if err != nil {
			logging.L().Debug("rejected session token",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired session token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
