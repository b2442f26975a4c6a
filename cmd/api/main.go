// @title PyWhiz API
// @version 1.0
// @description Backend for the PyWhiz Python learning platform.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "pywhiz/cmd/api/docs"
	"pywhiz/internal/adapter"
	"pywhiz/internal/adapter/executor"
	"pywhiz/internal/adapter/grader"
	"pywhiz/internal/cache"
	"pywhiz/internal/config"
	"pywhiz/internal/database"
	"pywhiz/internal/domain"
	"pywhiz/internal/handler"
	"pywhiz/internal/logger"
	"pywhiz/internal/middleware"
	"pywhiz/internal/repository"
	"pywhiz/internal/service"
	"pywhiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx := context.Background()

	db, err := database.Open(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, cfg.DB.Driver); err != nil {
		appLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Redis is optional; without it content is read straight from the database.
	var contentCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, content cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			contentCache = adapter.NewRedisCacheAdapter(redisClient)
			appLogger.Info("Successfully connected to Redis")
		}
	}

	model, err := grader.NewModel(cfg.Grader)
	if err != nil {
		appLogger.Fatal("Failed to create grading model", zap.Error(err))
	}
	llmClient := grader.NewLLMClient(model, cfg.Grader)
	sandbox := executor.NewPistonClient(cfg.Executor)

	// Repositories
	userRepo := repository.NewSQLXUserRepository(db)
	contentRepo := repository.NewSQLXContentRepository(db)
	answerRepo := repository.NewSQLXAnswerRepository(db)
	submissionRepo := repository.NewSQLXSubmissionRepository(db)
	progressRepo := repository.NewSQLXProgressRepository(db)
	exerciseRepo := repository.NewSQLXExerciseRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	authService, err := service.NewAuthService(userRepo, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	progressService := service.NewProgressService(progressRepo, contentRepo, txManager, cfg.Rewards)
	contentService := service.NewContentService(contentRepo, contentCache, cfg.CacheTTLs.Content)
	submissionService := service.NewSubmissionService(
		contentRepo, answerRepo, exerciseRepo, submissionRepo, progressService,
		sandbox, llmClient, grader.NewPromptBuilder(),
		grader.NewTranslator(llmClient, cfg.Feedback.TranslateTo),
		cfg.Rewards,
	)
	mcqService := service.NewMCQService(contentRepo, answerRepo, progressService, cfg.Rewards)
	exerciseService := service.NewExerciseService(exerciseRepo, submissionRepo, grader.NewExerciseGenerator(llmClient))
	userService := service.NewUserService(userRepo, submissionRepo)

	// Handlers
	validator := validation.NewValidator()
	submitLimiter := middleware.NewSubmissionLimiter(cfg.RateLimit.SubmissionsPerMinute)
	defer submitLimiter.Close()

	app := fiber.New(fiber.Config{
		AppName:      "pywhiz",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization," + middleware.RequestIDHeader,
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return domain.NewInternalError("Database unreachable", err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handler.Routes{
		Auth:        handler.NewAuthHandler(authService, validator),
		Users:       handler.NewUserHandler(userService, validator),
		Learn:       handler.NewLearnHandler(contentService, submissionService, mcqService, progressService, exerciseService, validator),
		Protected:   middleware.Protected(authService),
		SubmitLimit: submitLimiter.Handler(),
		IDParam:     middleware.NewValidationMiddleware(validator).ValidateIDParam,
	}.Register(app.Group("/api"))

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
