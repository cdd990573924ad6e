package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/journalme/backend/internal/router"
	"github.com/journalme/backend/pkg/config"
	"github.com/journalme/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, cfg, db, logger); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
