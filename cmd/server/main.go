package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/socialconnect-app/backend/internal/repositories"
	"github.com/socialconnect-app/backend/internal/router"
	"github.com/socialconnect-app/backend/internal/storage"
	"github.com/socialconnect-app/backend/pkg/config"
	"github.com/socialconnect-app/backend/pkg/logger"
	"github.com/socialconnect-app/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)
	defer logger.Sync()

	// Storage backend for uploaded media
	var store storage.Storage
	var err error
	switch cfg.StorageBackend {
	case "s3":
		store, err = storage.NewS3Storage(storage.S3Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
		})
	default:
		store, err = storage.NewLocalStorage(cfg.MediaRoot, cfg.MediaURLPrefix)
	}
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Repository set: seeded in-memory stores in demo mode, real databases
	// in server mode.
	var repos *repositories.Repositories
	if cfg.Mode == config.ModeServer {
		db, err := config.InitDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize databases: %v", err)
		}
		defer db.CloseDB()

		repos, err = router.NewServerRepositories(db, cfg)
		if err != nil {
			log.Fatalf("Failed to build repositories: %v", err)
		}
	} else {
		log.Println("Running in demo mode: in-memory stores, no databases. Sign in with demo@socialconnect.com / demo123.")
		repos = repositories.NewMemoryRepositories()
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Serve local media uploads
	if cfg.StorageBackend != "s3" {
		e.Static(cfg.MediaURLPrefix, cfg.MediaRoot)
	}

	// Setup routes and dependencies
	router.SetupRoutes(e, repos, store)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
