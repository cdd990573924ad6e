package router

import (
	"log"
	"net/http"

	"github.com/journalme/backend/internal/handlers"
	"github.com/journalme/backend/internal/middleware"
	"github.com/journalme/backend/internal/models"
	"github.com/journalme/backend/internal/repositories"
	"github.com/journalme/backend/internal/services"
	"github.com/journalme/backend/internal/storage"
	"github.com/journalme/backend/pkg/config"
	"github.com/journalme/backend/pkg/mailer"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware and the error body shape
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = errorHandler
	log.Println("Global middleware configured.")
}

// errorHandler renders every error as {"error": string}
func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": message})
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, logger *zap.Logger) error {
	// AutoMigrate PostgreSQL models
	if err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Follow{},
	); err != nil {
		return err
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// Uploaded media, served under server-generated names only
	store, err := storage.NewDiskStore(cfg.UploadsDir)
	if err != nil {
		return err
	}
	e.Static("/uploads", store.Dir())

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(db.Postgres)
	journalRepo := repositories.NewMongoJournalRepository(db.Mongo.Database("journalme"))

	// --- Initialize Services ---
	var m mailer.Mailer
	if cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.AppBaseURL)
	} else {
		m = mailer.NewLogMailer(logger, cfg.AppBaseURL)
	}

	passwordService := services.NewPasswordService(cfg.BcryptCost)
	tokenService := services.NewTokenService(cfg.JWTSecret)
	userService := services.NewUserService(logger, userRepo, passwordService, m)
	followService := services.NewFollowService(logger, followRepo, userRepo, journalRepo)
	journalService := services.NewJournalService(logger, journalRepo, store)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(userService, tokenService)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	authMW := middleware.JWTAuthMiddleware(tokenService)

	usersGroup := e.Group("/api/users", authMW)
	userHandler := handlers.NewUserHandler(userService, followService)
	userHandler.RegisterUserRoutes(usersGroup)
	log.Println("User routes configured.")

	followsGroup := e.Group("/api/follows", authMW)
	followHandler := handlers.NewFollowHandler(followService)
	followHandler.RegisterFollowRoutes(followsGroup)
	log.Println("Follow routes configured.")

	journalsGroup := e.Group("/api/journals", authMW)
	journalHandler := handlers.NewJournalHandler(journalService, store)
	journalHandler.RegisterJournalRoutes(journalsGroup)
	log.Println("Journal routes configured.")

	log.Println("All routes configured.")
	return nil
}
