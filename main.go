// File: /main.go
package main

import (
	"log"
	"time"

	"github.com/dariulone/dariulonePosts/config"
	"github.com/dariulone/dariulonePosts/database"
	"github.com/dariulone/dariulonePosts/jobs"
	"github.com/dariulone/dariulonePosts/middleware"
	"github.com/dariulone/dariulonePosts/routes"
	"github.com/dariulone/dariulonePosts/services"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with test data (optional - for development)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8000" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestLogger())

	// Services shared across controllers
	emailService := services.NewEmailService(cfg)
	broadcaster := services.NewBroadcaster()

	// Setup routes
	routes.SetupRoutes(router, db, cfg, emailService, broadcaster)

	// Background pruning of old notifications
	cleanupJob := jobs.NewNotificationCleanupJob(db, 24*time.Hour, cfg.NotificationRetention)
	cleanupJob.Start()
	defer cleanupJob.Stop()

	// Start server
	log.Printf("Starting dariulonePosts API server on port %s", cfg.Port)
	log.Printf("Live updates available at: ws://localhost:%s/ws", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
