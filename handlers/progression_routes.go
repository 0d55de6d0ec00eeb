// handlers/progression_routes.go
package handlers

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/xymathpro-hue/xy-cursos-sub001/middleware"
	"github.com/xymathpro-hue/xy-cursos-sub001/models"
	"github.com/xymathpro-hue/xy-cursos-sub001/services"
	"github.com/xymathpro-hue/xy-cursos-sub001/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gosimple/slug"
)

var validate = validator.New()

func SetupProgressionRoutes(app *fiber.App, progression *services.ProgressionService, goals *services.DailyGoalService, achievements *services.AchievementService) {
	// 🔐 Secured routes — require user context forwarded by the Gateway
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		stats, err := progression.GetOrCreateStats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load progress",
				"cause": err.Error(),
			})
		}

		info := progression.Levels.Resolve(stats.XPTotal)

		meta, err := goals.GetOrCreateMeta(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load daily goal config",
				"cause": err.Error(),
			})
		}
		today, err := goals.GetOrCreateTodayProgress(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load today's progress",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"user_id":            stats.UserID,
			"xp_total":           stats.XPTotal,
			"level":              info,
			"streak_current":     stats.StreakCurrent,
			"streak_max":         stats.StreakMax,
			"last_study_date":    stats.LastStudyDate,
			"questions_answered": stats.QuestionsAnswered,
			"questions_correct":  stats.QuestionsCorrect,
			"battles_played":     stats.BattlesPlayed,
			"battles_perfect":    stats.BattlesPerfect,
			"daily_goal": fiber.Map{
				"xp_goal":            meta.DailyXPGoal,
				"questions_goal":     meta.DailyQuestionsGoal,
				"xp_today":           today.XPGained,
				"questions_today":    today.QuestionsAnswered,
				"xp_goal_met":        today.XPGoalMet,
				"questions_goal_met": today.QuestionsGoalMet,
			},
		})
	})

	securedGroup.Get("/user/progress/history", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))
		history, err := progression.GetXPHistory(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get history",
				"cause": err.Error(),
			})
		}
		return c.JSON(history)
	})

	securedGroup.Get("/user/achievements", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		unlocked, err := achievements.GetUserAchievements(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(unlocked)
	})

	securedGroup.Post("/user/activity/question", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Correct           *bool  `json:"correct" validate:"required"`
			Difficulty        string `json:"difficulty" validate:"omitempty,oneof=facil medio dificil"`
			DiagnosisComplete bool   `json:"diagnostico_completo"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		result, err := progression.RegisterQuestionAnswered(userID, *req.Correct, req.Difficulty)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to register question",
				"cause": err.Error(),
			})
		}

		xpGained := 0
		correctDelta := 0
		if result != nil {
			xpGained = result.XPGained
		}
		if *req.Correct {
			correctDelta = 1
		}
		if err := goals.RecordActivity(userID, xpGained, 1, correctDelta); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record daily activity",
				"cause": err.Error(),
			})
		}

		stats, err := progression.GetOrCreateStats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to reload stats",
				"cause": err.Error(),
			})
		}
		unlocked, err := achievements.Evaluate(userID, stats, req.DiagnosisComplete)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "achievement evaluation failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"result":   result, // null when no XP was granted
			"unlocked": unlocked,
		})
	})

	securedGroup.Post("/user/activity/battle", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			CorrectCount      *int `json:"correct_count" validate:"required,min=0"`
			TotalCount        int  `json:"total_count" validate:"required,min=1"`
			DiagnosisComplete bool `json:"diagnostico_completo"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		result, err := progression.RegisterBattle(userID, *req.CorrectCount, req.TotalCount)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to register battle",
				"cause": err.Error(),
			})
		}

		xpGained := 0
		if result != nil {
			xpGained = result.XPGained
		}
		// Battles feed the XP goal only; the questions goal tracks practice questions.
		if err := goals.RecordActivity(userID, xpGained, 0, 0); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to record daily activity",
				"cause": err.Error(),
			})
		}

		stats, err := progression.GetOrCreateStats(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to reload stats",
				"cause": err.Error(),
			})
		}
		unlocked, err := achievements.Evaluate(userID, stats, req.DiagnosisComplete)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "achievement evaluation failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"result":   result,
			"unlocked": unlocked,
		})
	})

	securedGroup.Get("/user/goal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		meta, err := goals.GetOrCreateMeta(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load goal config",
				"cause": err.Error(),
			})
		}
		return c.JSON(meta)
	})

	securedGroup.Put("/user/goal", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			DailyXPGoal        int `json:"daily_xp_goal" validate:"min=0"`
			DailyQuestionsGoal int `json:"daily_questions_goal" validate:"min=0"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		if err := goals.UpdateGoal(userID, req.DailyXPGoal, req.DailyQuestionsGoal); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update goal",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireRole("admin"))

	adminGroup.Post("/xp/grant", func(c *fiber.Ctx) error {
		type Req struct {
			UserID string `json:"user_id" validate:"required,uuid"`
			XP     int    `json:"xp" validate:"required,min=1"`
			Reason string `json:"reason" validate:"max=255"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		result, err := progression.AddXP(req.UserID, req.XP, req.Reason)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP grant failed",
				"cause": err.Error(),
			})
		}
		return c.JSON(result)
	})

	adminGroup.Get("/achievements", func(c *fiber.Ctx) error {
		var catalog []models.AchievementDefinition
		if err := achievements.DB.Order("created_at ASC").Find(&catalog).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list achievements",
				"cause": err.Error(),
			})
		}
		return c.JSON(catalog)
	})

	adminGroup.Post("/achievements", func(c *fiber.Ctx) error {
		type Req struct {
			Title          string  `form:"title" validate:"required,max=100"`
			Description    string  `form:"description" validate:"max=255"`
			Category       string  `form:"category" validate:"required,max=32"`
			CriterionType  string  `form:"criterion_type" validate:"required"`
			CriterionValue float64 `form:"criterion_value" validate:"min=0"`
			XPBonus        int     `form:"xp_bonus" validate:"min=0"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid form data",
				"cause": err.Error(),
			})
		}
		if err := validate.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "validation failed",
				"cause": err.Error(),
			})
		}

		code := slug.Make(req.Title)

		iconURL := ""
		if fileHeader, err := c.FormFile("icon"); err == nil && fileHeader != nil {
			key := fmt.Sprintf("icons/%s%s", code, filepath.Ext(fileHeader.Filename))
			iconURL, err = utils.UploadIconToR2(fileHeader, key)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "icon upload failed",
					"cause": err.Error(),
				})
			}
		}

		def, err := achievements.CreateDefinition(services.NewAchievementParams{
			Code:           code,
			Title:          req.Title,
			Description:    req.Description,
			IconURL:        iconURL,
			Category:       req.Category,
			XPBonus:        req.XPBonus,
			CriterionType:  req.CriterionType,
			CriterionValue: req.CriterionValue,
		})
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create achievement",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(def)
	})
}
