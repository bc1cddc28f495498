package router

import (
	"github.com/anik-barua/devlink/backend/internal/auth"
	"github.com/anik-barua/devlink/backend/internal/handlers"
	"github.com/anik-barua/devlink/backend/internal/middleware"
	"github.com/anik-barua/devlink/backend/internal/models"
	"github.com/anik-barua/devlink/backend/internal/repositories"
	"github.com/anik-barua/devlink/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, cfg *config.Config) {
	// AutoMigrate PostgreSQL models
	if err := pgdb.AutoMigrate(&models.User{}, &models.SessionToken{}); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate models")
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mongoDB := mgClient.Database(cfg.MongoDatabase)
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	profileRepo := repositories.NewMongoProfileRepository(mongoDB)
	postRepo := repositories.NewMongoPostRepository(mongoDB)

	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Public routes live under /api; protected routes share the prefix
	// but require a valid token
	public := e.Group("/api")
	protected := e.Group("/api")
	protected.Use(middleware.AuthMiddleware(tokens))

	authHandler := handlers.NewAuthHandler(userRepo, tokens)
	authHandler.RegisterAuthRoutes(public, protected)

	profileHandler := handlers.NewProfileHandler(profileRepo, postRepo, userRepo)
	profileHandler.RegisterProfileRoutes(public, protected)

	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(protected)

	log.Info().Msg("All routes configured")
}
