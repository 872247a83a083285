package main

import (
	"log"

	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/api"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/config"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/database"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/middleware"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/internal/scheduler"
	"github.com/alexandrevrabandonada-oss/coopeco-sub000/pkg/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}

	// Initialize logging
	logging.InitLogging()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Initialize auth
	if err := middleware.InitAuth(); err != nil {
		log.Fatal("Failed to initialize auth:", err)
	}

	// Start the daily generation scheduler
	sched, err := scheduler.New()
	if err != nil {
		log.Fatal("Failed to initialize scheduler:", err)
	}
	sched.Start()
	defer sched.Stop()

	// Set Gin mode
	gin.SetMode(config.AppConfig.Mode)

	// Create Gin engine
	r := gin.Default()

	// Setup routes
	api.SetupRoutes(r)

	// Start server
	port := config.AppConfig.Port
	logging.Infof("Starting server on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
