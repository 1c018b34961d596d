package handlers

import (
	"github.com/gofiber/fiber/v2"

	"badminton-community-system/middleware"
	"badminton-community-system/services"
)

// SetupInternalRoutes mounts the service-to-service surface: announcement
// fan-out and router diagnostics. No user identity here, only the shared
// token.
func SetupInternalRoutes(app *fiber.App, router *services.NotificationRouter, serviceToken string) {
	internal := app.Group("/internal", middleware.InternalAuth(serviceToken))

	internal.Post("/broadcast", broadcastAnnouncement(router))
	internal.Get("/router/stats", routerStats(router))
}

func broadcastAnnouncement(router *services.NotificationRouter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Message string      `json:"message"`
			Payload interface{} `json:"payload"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}
		if body.Message == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "message is required",
			})
		}

		payload := body.Payload
		if payload == nil {
			payload = fiber.Map{"message": body.Message}
		}
		router.Broadcast(services.EventAnnouncement, payload)

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "queued",
		})
	}
}

func routerStats(router *services.NotificationRouter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(router.Stats())
	}
}
