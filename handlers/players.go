package handlers

import (
	"github.com/gofiber/fiber/v2"

	"badminton-community-system/services"
	"badminton-community-system/utils"
)

func SetupPlayerRoutes(app *fiber.App, players *services.PlayerService, auth fiber.Handler) {
	api := app.Group("/api", auth)

	api.Post("/players", createProfile(players))
	api.Get("/players/me", myProfile(players))
	api.Patch("/players/me", updateProfile(players))
	api.Get("/players/search", searchPlayers(players))
	api.Get("/players/:id", profileByID(players))
	api.Get("/players/:id/rating-history", ratingHistory(players))
	api.Get("/leaderboard", leaderboard(players))
}

func createProfile(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			DisplayName string `json:"display_name"`
			City        string `json:"city"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		p, err := players.CreateProfile(c.Context(), currentUserID(c), body.DisplayName, body.City)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func myProfile(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := players.ProfileByID(c.Context(), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(p)
	}
}

func updateProfile(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			DisplayName *string `json:"display_name"`
			City        *string `json:"city"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		p, err := players.UpdateProfile(c.Context(), currentUserID(c), body.DisplayName, body.City)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(p)
	}
}

func searchPlayers(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := players.SearchPlayers(c.Context(), c.Query("q"), c.QueryInt("limit"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(list)
	}
}

func profileByID(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := players.ProfileByID(c.Context(), c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(p)
	}
}

func ratingHistory(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit := utils.ParsePage(c, 50, 200)
		changes, err := players.RatingHistory(c.Context(), c.Params("id"), page, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(changes)
	}
}

func leaderboard(players *services.PlayerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit := utils.ParsePage(c, 25, 100)
		list, err := players.Leaderboard(c.Context(), c.Query("discipline"), page, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(list)
	}
}
