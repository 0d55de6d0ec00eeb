package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xymathpro-hue/xy-cursos-sub001/handlers"
	"github.com/xymathpro-hue/xy-cursos-sub001/middleware"
	"github.com/xymathpro-hue/xy-cursos-sub001/models"
	"github.com/xymathpro-hue/xy-cursos-sub001/services"
	"github.com/xymathpro-hue/xy-cursos-sub001/utils"
	"github.com/xymathpro-hue/xy-cursos-sub001/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — icon uploads only
	})

	// 🔐 GLOBAL: only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.LevelDefinition{},
		&models.UserStats{},
		&models.XPHistoryEntry{},
		&models.UserMeta{},
		&models.DailyProgress{},
		&models.AchievementDefinition{},
		&models.UserAchievement{},
		&models.UserProfile{},
		&models.RankingEntry{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	if err := services.SeedAchievementCatalog(db); err != nil {
		log.Fatal("failed to seed achievement catalog:", err)
	}
	if err := services.SeedLevelTable(db); err != nil {
		log.Fatal("failed to seed level table:", err)
	}

	levelTable := services.DefaultLevelTable()
	progressionService := services.NewProgressionService(db, levelTable)
	dailyGoalService := services.NewDailyGoalService(db)
	achievementService := services.NewAchievementService(db, progressionService)
	leaderboardService := services.NewLeaderboardService(db)

	accountServiceURL := os.Getenv("ACCOUNT_SERVICE_URL")
	if accountServiceURL == "" {
		log.Fatal("ACCOUNT_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("PROGRESS_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("PROGRESS_SERVICE_TOKEN environment variable not set")
	}

	syncWorker := workers.NewProfileSyncWorker(db, accountServiceURL, "/api/v1/public/profiles", serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker.Start(ctx)
	leaderboardService.StartRankingScheduler(5 * time.Minute)

	handlers.SetupProgressionRoutes(app, progressionService, dailyGoalService, achievementService)
	handlers.SetupRankingRoutes(app, leaderboardService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Ranking scheduler running (every 5m)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
