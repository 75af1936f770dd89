package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"goclean-be-svc/docs"
	"goclean-be-svc/internal/cache"
	"goclean-be-svc/internal/config"
	"goclean-be-svc/internal/database"
	"goclean-be-svc/internal/handler"
	"goclean-be-svc/internal/middleware"
	"goclean-be-svc/internal/repository"
	"goclean-be-svc/internal/scheduler"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
)

// @title GoClean Backend Service API
// @version 1.0
// @description Waste pickup marketplace connecting households with TPS operators

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Swagger documentation
	docs.SwaggerInfo.Title = "GoClean Backend Service API"
	docs.SwaggerInfo.Description = "Waste pickup marketplace connecting households with TPS operators"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", cfg.Server.Port)
	docs.SwaggerInfo.BasePath = ""
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting GoClean Backend Service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		appLogger.WithField("error", err).Fatal("Failed to connect to database")
	}
	appLogger.Info("Database connected successfully")

	// Run auto migration
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithField("error", err).Fatal("Failed to run database migrations")
	}
	appLogger.Info("Database migrations completed successfully")

	// Live location cache, in-process no-op when Redis is not configured
	locations := cache.NewNopLocationCache()
	if cfg.Redis.Addr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedisLocationCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.LocationTTL)
		cancel()
		if err != nil {
			appLogger.WithError(err).Warn("Redis unavailable, live locations will not be cached")
		} else {
			locations = redisCache
			appLogger.WithField("addr", cfg.Redis.Addr).Info("Redis location cache connected")
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	tpsRepo := repository.NewTPSRepository(db.DB)
	categoryRepo := repository.NewWasteCategoryRepository(db.DB)
	pickupRepo := repository.NewPickupRepository(db.DB)
	trxRepo := repository.NewTransactionRepository(db.DB)
	paymentConfigRepo := repository.NewPaymentConfigRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	menuRepo := repository.NewMenuRepository(db.DB)
	dashboardRepo := repository.NewDashboardRepository(db.DB)
	logSchedulerRepo := repository.NewLogSchedulerRepository(db.DB)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, tpsRepo, appLogger)
	mayarService := service.NewMayarService(service.MayarConfig(cfg.Mayar), appLogger)
	pickupService := service.NewPickupService(
		pickupRepo,
		categoryRepo,
		tpsRepo,
		paymentConfigRepo,
		locations,
		notificationService,
		service.PickupServiceConfig{
			UploadDir:      cfg.Upload.Dir,
			MaxUploadBytes: cfg.Upload.MaxSizeBytes,
		},
		appLogger,
	)

	services := &handler.Services{
		Auth:          service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL, appLogger),
		User:          service.NewUserService(userRepo, tpsRepo, notificationService, appLogger),
		TPS:           service.NewTPSService(tpsRepo, appLogger),
		WasteCategory: service.NewWasteCategoryService(categoryRepo, appLogger),
		Pickup:        pickupService,
		Transaction:   service.NewTransactionService(trxRepo, userRepo, mayarService, notificationService, appLogger),
		Notification:  notificationService,
		Sync:          service.NewSyncService(pickupRepo, trxRepo, notificationRepo, tpsRepo, appLogger),
		Dashboard:     service.NewDashboardService(dashboardRepo, appLogger),
		Menu:          service.NewMenuService(menuRepo, appLogger),
		SchedulerLog:  service.NewSchedulerLogService(logSchedulerRepo),
	}

	// Start background jobs
	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs = scheduler.NewScheduler(pickupService, notificationService, logSchedulerRepo, cfg.Scheduler, appLogger)
		if err := jobs.Start(); err != nil {
			appLogger.WithField("error", err).Fatal("Failed to start scheduler")
		}
	}

	// Initialize Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORS.Origins()))
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler(appLogger))
	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())

	// Setup routes
	handler.SetupRoutes(router, services, cfg.Upload.MaxSizeBytes, appLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		appLogger.WithField("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)).Info("Swagger documentation available")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithField("error", err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithField("port", cfg.Server.Port).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithField("error", err).Error("Server forced to shutdown")
	}

	if jobs != nil {
		jobs.Stop()
	}

	if err := locations.Close(); err != nil {
		appLogger.WithField("error", err).Error("Failed to close location cache")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		appLogger.WithField("error", err).Error("Failed to close database connection")
	}

	appLogger.Info("Server exited successfully")
}
