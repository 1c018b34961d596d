package handlers

import (
	"github.com/gofiber/fiber/v2"

	"badminton-community-system/services"
	"badminton-community-system/utils"
)

func SetupChatRoutes(app *fiber.App, chat *services.ChatService, auth fiber.Handler) {
	api := app.Group("/api", auth)

	api.Post("/chat/:userId", sendMessage(chat))
	api.Get("/chat/:userId", conversation(chat))
}

func sendMessage(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Body string `json:"body"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		msg, err := chat.Send(c.Context(), currentUserID(c), c.Params("userId"), body.Body)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(msg)
	}
}

func conversation(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit := utils.ParsePage(c, 50, 200)
		msgs, err := chat.Conversation(c.Context(), currentUserID(c), c.Params("userId"), page, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(msgs)
	}
}
