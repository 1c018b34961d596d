package handlers

import (
	"github.com/gofiber/fiber/v2"

	"badminton-community-system/services"
	"badminton-community-system/utils"
)

func SetupCourtRoutes(app *fiber.App, courts *services.CourtService, auth fiber.Handler) {
	api := app.Group("/api", auth)

	api.Post("/courts", createCourt(courts))
	api.Get("/courts", searchCourts(courts))
	// Registered before /courts/:slug so "favorites" is never read as a slug.
	api.Get("/courts/favorites/mine", favoriteCourts(courts))
	api.Get("/courts/:slug", courtBySlug(courts))
	api.Post("/courts/:id/favorite", favoriteCourt(courts))
	api.Delete("/courts/:id/favorite", unfavoriteCourt(courts))
}

func createCourt(courts *services.CourtService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in services.CreateCourtInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		court, err := courts.Create(c.Context(), in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(court)
	}
}

func searchCourts(courts *services.CourtService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit := utils.ParsePage(c, 20, 100)
		list, err := courts.Search(c.Context(), c.Query("q"), c.Query("city"), page, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(list)
	}
}

func courtBySlug(courts *services.CourtService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		court, err := courts.BySlug(c.Context(), c.Params("slug"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(court)
	}
}

func favoriteCourt(courts *services.CourtService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := courts.Favorite(c.Context(), currentUserID(c), c.Params("id")); err != nil {
			return respondServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func unfavoriteCourt(courts *services.CourtService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := courts.Unfavorite(c.Context(), currentUserID(c), c.Params("id")); err != nil {
			return respondServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func favoriteCourts(courts *services.CourtService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := courts.FavoritesOf(c.Context(), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(list)
	}
}
