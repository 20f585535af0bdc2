package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/homeplate/homeplate-api/config"
	"github.com/homeplate/homeplate-api/controllers"
	"github.com/homeplate/homeplate-api/middleware"
	"github.com/homeplate/homeplate-api/models"
	"github.com/homeplate/homeplate-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting HomePlate API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Kitchen{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize services
	store := services.NewGormStore(db)
	services.InitNotificationService(db)
	services.InitReliabilityService(store, cfg.Scoring)
	services.InitSubscriptionGenerator(store)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.Default())

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Reliability score endpoints
		v1.GET("/kitchens/:id/score", controllers.GetKitchenScore)
		v1.POST("/kitchens/:id/score/refresh", controllers.RefreshKitchenScore)

		// Admin sweep, behind Auth0 when configured
		admin := v1.Group("/admin")
		if cfg.Auth0Domain != "" {
			admin.Use(middleware.EnsureValidToken(cfg))
		}
		admin.POST("/scores/refresh", controllers.RefreshAllScores)

		// Daily batch trigger, behind the cron secret when configured
		v1.POST("/cron/generate-orders",
			middleware.RequireCronSecret(cfg.CronSecret),
			controllers.GenerateSubscriptionOrders,
		)
	}

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "HomePlate API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
