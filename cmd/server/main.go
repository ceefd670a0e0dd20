package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/recipepad/internal/config"
	"github.com/foxxcyber/recipepad/internal/database"
	"github.com/foxxcyber/recipepad/internal/handlers"
	"github.com/foxxcyber/recipepad/internal/logger"
	"github.com/foxxcyber/recipepad/internal/middleware"
	"github.com/foxxcyber/recipepad/internal/ocr"
	"github.com/foxxcyber/recipepad/internal/services"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	encryptionKey := services.DeriveEncryptionKey(cfg.EncryptionSecret())
	opts := []handlers.Option{
		handlers.WithOrders(services.NewOrderService(
			db, services.NewTelegramNotifier(cfg.TelegramAPIURL), encryptionKey, log,
		)),
	}

	if backups := initBackups(cfg, db, log); backups != nil {
		opts = append(opts, handlers.WithBackups(backups))
	}

	if scanner := initScanner(cfg, log); scanner != nil {
		defer scanner.Close()
		opts = append(opts, handlers.WithScanner(scanner))
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(log),
		BodyLimit:             cfg.MaxUploadBytes(),
		UnescapePath:          true,
		DisableStartupMessage: cfg.IsProduction(),
		EnablePrintRoutes:     cfg.IsDevelopment(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.OwnerHeader,
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	h := handlers.New(db, cfg, log, opts...)
	h.RegisterRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Error("Shutdown failed")
		}
	}()

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// initBackups returns nil when object storage is not configured or reachable
func initBackups(cfg *config.Config, db *database.DB, log logrus.FieldLogger) *services.BackupService {
	if !cfg.BackupsEnabled() {
		log.Info("S3 credentials not configured, backups disabled")
		return nil
	}

	storage, err := services.NewStorageService(
		cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
	)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize storage service, backups disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := storage.EnsureBucket(ctx); err != nil {
		log.WithError(err).Warn("Failed to ensure S3 bucket exists, backups disabled")
		return nil
	}

	log.WithField("bucket", storage.GetBucketName()).Info("Backup storage initialized")
	return services.NewBackupService(storage, db, log)
}

// initScanner returns nil when tesseract is not available
func initScanner(cfg *config.Config, log logrus.FieldLogger) *ocr.Service {
	if !ocr.Available() {
		log.Info("OCR not available on this platform, scanning disabled")
		return nil
	}

	scanner, err := ocr.New(cfg.OCRLanguage)
	if err != nil {
		log.WithError(err).Warn("Failed to initialize OCR, scanning disabled")
		return nil
	}
	log.WithField("language", cfg.OCRLanguage).Info("OCR initialized")
	return scanner
}
