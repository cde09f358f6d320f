package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/socialconnect-app/backend/internal/handlers"
	"github.com/socialconnect-app/backend/internal/middleware"
	"github.com/socialconnect-app/backend/internal/models"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/socialconnect-app/backend/internal/storage"
	"github.com/socialconnect-app/backend/pkg/config"
	"github.com/socialconnect-app/backend/pkg/logger"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			logger.Logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	log.Println("Global middleware configured.")
}

// NewServerRepositories builds the database-backed repository set and runs
// the PostgreSQL migrations.
func NewServerRepositories(db *config.DB, cfg *config.Config) (*repositories.Repositories, error) {
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.SharedPost{},
		&models.PostReport{},
		&models.Block{},
		&models.FriendRequest{},
		&models.Friendship{},
		&models.Notification{},
		&models.Conversation{},
	)
	if err != nil {
		return nil, err
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	return &repositories.Repositories{
		Users:         repositories.NewPostgresUserRepository(db.Postgres),
		Posts:         repositories.NewMongoPostRepository(mongoDB),
		Comments:      repositories.NewPostgresCommentRepository(db.Postgres),
		Likes:         repositories.NewPostgresLikeRepository(db.Postgres),
		Shares:        repositories.NewPostgresShareRepository(db.Postgres),
		Reports:       repositories.NewPostgresReportRepository(db.Postgres),
		Blocks:        repositories.NewPostgresBlockRepository(db.Postgres),
		Friendships:   repositories.NewPostgresFriendshipRepository(db.Postgres),
		Notifications: repositories.NewPostgresNotificationRepository(db.Postgres),
		Conversations: repositories.NewPostgresConversationRepository(db.Postgres),
		Messages:      repositories.NewMongoMessageRepository(mongoDB),
		Tokens:        repositories.NewRedisTokenRepository(db.Redis),
	}, nil
}

// SetupRoutes configures all application routes and injects dependencies.
// The same handler set serves both modes; only the repository set differs.
func SetupRoutes(e *echo.Echo, repos *repositories.Repositories, store storage.Storage) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/auth")
	authHandler := handlers.NewAuthHandler(repos.Users, repos.Tokens)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware())
	api.Use(middleware.Presence(repos.Users))
	log.Println("JWT authentication middleware applied to /api group.")

	authHandler.RegisterAuthRoutes(authGroup, api.Group("/auth"))
	log.Println("Auth routes configured.")

	// User routes
	userHandler := handlers.NewUserHandler(repos.Users, repos.Blocks)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(repos.Posts, repos.Comments, repos.Likes, repos.Shares, repos.Reports, store)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(repos.Posts, repos.Users, repos.Likes, repos.Shares, repos.Blocks)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(repos.Likes, repos.Posts, repos.Users, repos.Notifications)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(repos.Comments, repos.Posts, repos.Users, repos.Notifications)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Share routes
	shareHandler := handlers.NewShareHandler(repos.Shares, repos.Posts, repos.Users, repos.Blocks, repos.Notifications)
	shareHandler.RegisterShareRoutes(api)
	log.Println("Share routes configured.")

	// Messaging routes
	messagingHandler := handlers.NewMessagingHandler(repos.Conversations, repos.Messages, repos.Users, repos.Blocks, repos.Notifications, store)
	messagingHandler.RegisterMessagingRoutes(api)
	log.Println("Messaging routes configured.")

	// Profile routes
	profileHandler := handlers.NewProfileHandler(repos.Users, repos.Posts, repos.Likes, repos.Shares, repos.Blocks, repos.Friendships, store)
	profileHandler.RegisterProfileRoutes(api)
	log.Println("Profile routes configured.")

	// Friendship routes
	friendshipHandler := handlers.NewFriendshipHandler(repos.Friendships, repos.Users, repos.Blocks, repos.Notifications)
	friendshipHandler.RegisterFriendshipRoutes(api)
	log.Println("Friendship routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(repos.Notifications, repos.Users)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
