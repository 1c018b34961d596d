package handlers

import (
	"github.com/gofiber/fiber/v2"

	"badminton-community-system/services"
)

func SetupFriendRoutes(app *fiber.App, friends *services.FriendService, auth fiber.Handler) {
	api := app.Group("/api", auth)

	api.Post("/friends/requests", sendFriendRequest(friends))
	api.Get("/friends/requests", incomingFriendRequests(friends))
	api.Post("/friends/requests/:id/accept", acceptFriendRequest(friends))
	api.Post("/friends/requests/:id/decline", declineFriendRequest(friends))
	api.Get("/friends", listFriends(friends))
}

func sendFriendRequest(friends *services.FriendService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			AddresseeID string `json:"addressee_id"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		fr, err := friends.Send(c.Context(), currentUserID(c), body.AddresseeID)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(fr)
	}
}

func incomingFriendRequests(friends *services.FriendService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := friends.IncomingPending(c.Context(), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(list)
	}
}

func acceptFriendRequest(friends *services.FriendService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fr, err := friends.Accept(c.Context(), c.Params("id"), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fr)
	}
}

func declineFriendRequest(friends *services.FriendService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fr, err := friends.Decline(c.Context(), c.Params("id"), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(fr)
	}
}

func listFriends(friends *services.FriendService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := friends.FriendsOf(c.Context(), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(list)
	}
}
