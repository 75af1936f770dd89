package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"goclean-be-svc/internal/middleware"
	"goclean-be-svc/internal/models"
	"goclean-be-svc/internal/service"
	"goclean-be-svc/pkg/logger"
)

// Services bundles every service the HTTP layer depends on
type Services struct {
	Auth          service.AuthService
	User          service.UserService
	TPS           service.TPSService
	WasteCategory service.WasteCategoryService
	Pickup        service.PickupService
	Transaction   service.TransactionService
	Notification  service.NotificationService
	Sync          service.SyncService
	Dashboard     service.DashboardService
	Menu          service.MenuService
	SchedulerLog  service.SchedulerLogService
}

// Routes sets up all API routes
func SetupRoutes(router *gin.Engine, services *Services, maxUploadBytes int64, logger *logger.Logger) {
	// Initialize handlers
	authHandler := NewAuthHandler(services.Auth, logger)
	userHandler := NewUserHandler(services.User, logger)
	tpsHandler := NewTPSHandler(services.TPS, logger)
	categoryHandler := NewWasteCategoryHandler(services.WasteCategory, logger)
	pickupHandler := NewPickupHandler(services.Pickup, maxUploadBytes, logger)
	transactionHandler := NewTransactionHandler(services.Transaction, logger)
	notificationHandler := NewNotificationHandler(services.Notification, logger)
	syncHandler := NewSyncHandler(services.Sync, logger)
	dashboardHandler := NewDashboardHandler(services.Dashboard, logger)
	menuHandler := NewMenuHandler(services.Menu, logger)
	schedulerLogHandler := NewSchedulerLogHandler(services.SchedulerLog, logger)

	requireAuth := middleware.RequireAuth(services.Auth)
	userOnly := middleware.RequireRoles(models.RoleUser)
	tpsOnly := middleware.RequireRoles(models.RoleTPS)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.Me)
			auth.PUT("/me", requireAuth, authHandler.UpdateMe)
			auth.PUT("/password", requireAuth, authHandler.ChangePassword)
		}

		// Public directory
		v1.GET("/tps", tpsHandler.ListTPS)
		v1.GET("/tps/nearby", tpsHandler.NearbyTPS)
		v1.GET("/regions", tpsHandler.ListRegions)

		tpsSelf := v1.Group("/tps/me", requireAuth, tpsOnly)
		{
			tpsSelf.PUT("", tpsHandler.UpdateMyTPS)
			tpsSelf.POST("/open", tpsHandler.SetMyTPSOpen)
		}

		categories := v1.Group("/waste-categories")
		{
			categories.GET("", categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
			categories.POST("", requireAuth, adminOnly, categoryHandler.CreateCategory)
			categories.PUT("/:id", requireAuth, adminOnly, categoryHandler.UpdateCategory)
			categories.DELETE("/:id", requireAuth, adminOnly, categoryHandler.DeleteCategory)
		}

		pickups := v1.Group("/pickups", requireAuth)
		{
			pickups.POST("", userOnly, pickupHandler.CreatePickup)
			pickups.GET("", pickupHandler.ListPickups)
			pickups.GET("/:id", pickupHandler.GetPickup)
			pickups.GET("/:id/history", pickupHandler.GetHistory)
			pickups.POST("/:id/accept", tpsOnly, pickupHandler.AcceptPickup)
			pickups.POST("/:id/start", tpsOnly, pickupHandler.StartPickup)
			pickups.POST("/:id/picked-up", tpsOnly, pickupHandler.MarkPickedUp)
			pickups.POST("/:id/complete", tpsOnly, pickupHandler.CompletePickup)
			pickups.POST("/:id/cancel", pickupHandler.CancelPickup)
			pickups.PUT("/:id/location", tpsOnly, pickupHandler.UpdateLocation)
			pickups.GET("/:id/location", pickupHandler.GetLocation)
			pickups.POST("/:id/attachments", pickupHandler.UploadAttachment)
			pickups.GET("/:id/attachments", pickupHandler.ListAttachments)
			pickups.GET("/:id/attachments/:name", pickupHandler.DownloadAttachment)
		}

		transactions := v1.Group("/transactions")
		{
			// Payment gateway webhook
			transactions.POST("/confirm-payment", transactionHandler.ConfirmPaymentWebhook)

			transactions.GET("", requireAuth, transactionHandler.ListTransactions)
			transactions.GET("/:id", requireAuth, transactionHandler.GetTransaction)
			transactions.POST("/payment-link", requireAuth, userOnly, transactionHandler.CreatePaymentLink)
			transactions.POST("/:id/confirm-cash", requireAuth,
				middleware.RequireRoles(models.RoleTPS, models.RoleAdmin), transactionHandler.ConfirmCashPayment)
		}

		notifications := v1.Group("/notifications", requireAuth)
		{
			notifications.GET("", notificationHandler.ListNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
			notifications.POST("/:id/read", notificationHandler.MarkRead)
		}

		v1.GET("/sync", requireAuth, syncHandler.Sync)
		v1.GET("/dashboard", requireAuth, dashboardHandler.GetDashboard)
		v1.GET("/menus/me", requireAuth, menuHandler.GetMyMenus)

		admin := v1.Group("/admin", requireAuth, adminOnly)
		{
			admin.GET("/users", userHandler.ListUsers)
			admin.POST("/users/:id/active", userHandler.SetUserActive)
			admin.POST("/tps/:id/verify", userHandler.VerifyTPS)
			admin.GET("/waste-categories", categoryHandler.ListAllCategories)
			admin.GET("/transactions/export", transactionHandler.ExportTransactions)
		}

		v1.GET("/scheduler-logs", requireAuth, adminOnly, schedulerLogHandler.ListSchedulerLogs)

		// Master Menu routes
		masterMenus := v1.Group("/master-menus", requireAuth, adminOnly)
		{
			masterMenus.POST("", menuHandler.CreateMasterMenu)
			masterMenus.GET("", menuHandler.ListMasterMenus)
			masterMenus.GET("/:id", menuHandler.GetMasterMenu)
			masterMenus.PUT("/:id", menuHandler.UpdateMasterMenu)
			masterMenus.DELETE("/:id", menuHandler.DeleteMasterMenu)
		}
	}
}

// HealthCheck handles GET /api/v1/health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "Service is healthy"
// @Router /api/v1/health [get]
func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": "GoClean Backend Service",
	})
}
