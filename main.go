package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"badminton-community-system/config"
	"badminton-community-system/handlers"
	"badminton-community-system/logging"
	"badminton-community-system/middleware"
	"badminton-community-system/models"
	"badminton-community-system/services"
	"badminton-community-system/storage"
	"badminton-community-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	defer logging.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		logging.L().Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.PlayerProfile{},
		&models.Match{},
		&models.MatchParticipant{},
		&models.RatingChange{},
		&models.FriendRequest{},
		&models.DirectMessage{},
		&models.Court{},
		&models.CourtFavorite{},
	); err != nil {
		logging.L().Fatal("failed to migrate database", zap.Error(err))
	}

	store := storage.NewGormStore(db)
	router := services.NewNotificationRouter()
	dispatcher := services.NewDispatcher(router)

	sessionService := services.NewSessionService(cfg.SessionSecret, cfg.SessionTTL)
	matchService := services.NewMatchService(store, dispatcher)
	playerService := services.NewPlayerService(db, cfg.RatingDefault)
	friendService := services.NewFriendService(store, dispatcher)
	chatService := services.NewChatService(db, dispatcher)
	courtService := services.NewCourtService(db)

	app := fiber.New(fiber.Config{
		AppName: "badminton-community-system",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Requested-With",
	}))
	app.Use(middleware.RequestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := middleware.UserContext(sessionService)
	handlers.SetupMatchRoutes(app, matchService, auth)
	handlers.SetupPlayerRoutes(app, playerService, auth)
	handlers.SetupFriendRoutes(app, friendService, auth)
	handlers.SetupChatRoutes(app, chatService, auth)
	handlers.SetupCourtRoutes(app, courtService, auth)
	handlers.SetupWebSocketRoutes(app, router, sessionService, cfg.WSSendBuffer)
	handlers.SetupInternalRoutes(app, router, cfg.InternalServiceToken)

	sched, err := matchService.StartReminderScheduler(cfg.ReminderInterval, cfg.ReminderAfter)
	if err != nil {
		logging.L().Fatal("failed to start reminder scheduler", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workers.NewPresenceWorker(router, cfg.PresenceSweepInterval).Start(ctx)

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			logging.L().Error("server stopped", zap.Error(err))
		}
	}()

	logging.L().Info("✅ server running", zap.String("addr", cfg.ListenAddr))
	logging.L().Info("✅ reminder scheduler running",
		zap.Duration("interval", cfg.ReminderInterval),
		zap.Duration("older_than", cfg.ReminderAfter))

	<-ctx.Done()
	logging.L().Info("shutting down")

	if err := app.Shutdown(); err != nil {
		logging.L().Error("server shutdown failed", zap.Error(err))
	}
	if err := sched.Shutdown(); err != nil {
		logging.L().Error("scheduler shutdown failed", zap.Error(err))
	}
}
