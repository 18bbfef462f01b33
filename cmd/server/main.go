package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kraakman/autoservice-backend/config"
	"github.com/kraakman/autoservice-backend/internal/app/controller"
	"github.com/kraakman/autoservice-backend/internal/app/repository"
	"github.com/kraakman/autoservice-backend/internal/app/service"
	"github.com/kraakman/autoservice-backend/internal/db"
	"github.com/kraakman/autoservice-backend/internal/middleware"
	"github.com/kraakman/autoservice-backend/internal/router"
	"github.com/kraakman/autoservice-backend/internal/scheduler"
	"github.com/kraakman/autoservice-backend/internal/storage"
	"github.com/kraakman/autoservice-backend/pkg/logger"
	"github.com/kraakman/autoservice-backend/pkg/mail"
	"github.com/kraakman/autoservice-backend/pkg/places"
	"github.com/kraakman/autoservice-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Autoservice Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	database, err := db.Connect(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations and seed the admin account
	if err := db.Migrate(database, cfg); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis for the review snapshot tier
	redisClient, err := redis.Connect(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// External clients
	placesClient := places.NewClient(places.Config{
		APIKey:   cfg.Google.PlacesAPIKey,
		BaseURL:  cfg.Google.BaseURL,
		Language: cfg.Google.Language,
	})
	mailClient := mail.NewClient(mail.Config{
		APIKey:  cfg.Mail.ResendAPIKey,
		BaseURL: cfg.Mail.BaseURL,
		From:    cfg.Mail.From,
	})
	photoStorage := storage.NewPhotoStorage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	carRepo := repository.NewCarRepository(database)
	imageRepo := repository.NewCarImageRepository(database)
	reviewRepo := repository.NewReviewRepository(database)

	reviewURL := fmt.Sprintf("https://search.google.com/local/reviews?placeid=%s", cfg.Google.PlaceID)

	// Initialize services
	authService := service.NewAuthService(userRepo, &cfg.JWT)
	carService := service.NewCarService(carRepo, imageRepo, photoStorage)
	reviewService := service.NewReviewService(reviewRepo, redisClient, placesClient, cfg.Google.PlaceID, reviewURL)
	syncService := service.NewReviewSyncService(reviewRepo, placesClient, redisClient, cfg.Google.PlaceID, reviewURL)
	contactService := service.NewContactService(mailClient, carService, cfg.Mail.BusinessEmail)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	carController := controller.NewCarController(carService)
	imageController := controller.NewImageController(carService)
	reviewController := controller.NewReviewController(reviewService, syncService)
	contactController := controller.NewContactController(contactService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		carController,
		imageController,
		reviewController,
		contactController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start the periodic review sync
	var syncScheduler *scheduler.ReviewSyncScheduler
	if cfg.Sync.Enabled {
		syncScheduler = scheduler.NewReviewSyncScheduler(syncService, cfg.Sync.CronSpec)
		if err := syncScheduler.Start(); err != nil {
			logger.Fatal("Failed to start review sync scheduler", err)
		}
	} else {
		logger.Warn("Review sync scheduler disabled by configuration")
	}

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if syncScheduler != nil {
		syncScheduler.Stop()
	}
	logger.Info("Server stopped successfully")
}
