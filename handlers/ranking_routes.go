// handlers/ranking_routes.go
package handlers

import (
	"errors"
	"strconv"

	"github.com/xymathpro-hue/xy-cursos-sub001/middleware"
	"github.com/xymathpro-hue/xy-cursos-sub001/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRankingRoutes(app *fiber.App, leaderboard *services.LeaderboardService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/rankings", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "50"))
		entries, err := leaderboard.GetTop(limit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load rankings",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	securedGroup.Get("/rankings/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		entries, err := leaderboard.GetAroundUser(userID, 5)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Not ranked yet: no XP-earning activity since the last snapshot.
				return c.JSON([]struct{}{})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load rankings",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})
}
