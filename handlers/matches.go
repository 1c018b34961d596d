package handlers

import (
	"github.com/gofiber/fiber/v2"

	"badminton-community-system/models"
	"badminton-community-system/services"
	"badminton-community-system/utils"
)

func SetupMatchRoutes(app *fiber.App, matches *services.MatchService, auth fiber.Handler) {
	api := app.Group("/api", auth)

	api.Post("/matches", proposeMatch(matches))
	api.Get("/matches/pending", pendingMatches(matches))
	api.Get("/matches/history", matchHistory(matches))
	api.Get("/matches/:id", matchByID(matches))
	api.Post("/matches/:id/confirm", confirmMatch(matches))
	api.Post("/matches/:id/reject", rejectMatch(matches))
}

func proposeMatch(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in services.ProposeMatchInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
				"cause": err.Error(),
			})
		}

		m, err := matches.Propose(c.Context(), currentUserID(c), in)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(services.NewMatchView(m))
	}
}

func pendingMatches(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := matches.ListPendingFor(c.Context(), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(matchViews(list))
	}
}

func matchHistory(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit := utils.ParsePage(c, 20, 100)
		list, err := matches.History(c.Context(), currentUserID(c), page, limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(matchViews(list))
	}
}

func matchByID(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := matches.ByID(c.Context(), c.Params("id"))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(services.NewMatchView(m))
	}
}

func confirmMatch(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := matches.Confirm(c.Context(), c.Params("id"), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(services.NewMatchView(m))
	}
}

func rejectMatch(matches *services.MatchService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		m, err := matches.Reject(c.Context(), c.Params("id"), currentUserID(c))
		if err != nil {
			return respondServiceError(c, err)
		}
		return c.JSON(services.NewMatchView(m))
	}
}

func matchViews(list []models.Match) []services.MatchView {
	views := make([]services.MatchView, 0, len(list))
	for i := range list {
		views = append(views, services.NewMatchView(&list[i]))
	}
	return views
}
