package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SundayYogurt/account_service/config"
	"github.com/SundayYogurt/account_service/infra/queue"
	"github.com/SundayYogurt/account_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/account_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/account_service/internal/clients/google"
	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/SundayYogurt/account_service/internal/interfaces"
	"github.com/SundayYogurt/account_service/internal/mail"
	"github.com/SundayYogurt/account_service/internal/metrics"
	"github.com/SundayYogurt/account_service/internal/repository"
	"github.com/SundayYogurt/account_service/internal/services"
	"github.com/SundayYogurt/account_service/pkg/azblob"
	"github.com/SundayYogurt/account_service/pkg/cloudinary"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// same lock id across replicas so only one runs AutoMigrate at a time
const migrateLockID int64 = 20260222

// StartServer wires the service and serves until ctx is cancelled.
func StartServer(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	log.Info("database connected")

	if err := migrate(db); err != nil {
		return err
	}
	log.Info("migration successful")

	// ---------- Infra ----------
	uploader, err := newUploader(cfg)
	if err != nil {
		return err
	}

	mailer, closeMailer := newMailer(cfg, log)
	defer closeMailer()

	verifier, err := google.New(ctx, cfg.GoogleClientID)
	if err != nil {
		return fmt.Errorf("google verifier: %w", err)
	}

	authHelper := helper.SetupAuth(cfg.AccessSecret, cfg.AdminSecret)
	m := metrics.New()

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db, log)
	workspaceRepo := repository.NewWorkspaceRepository(db, log)

	// ---------- Service ----------
	userSvc := services.NewUserService(
		userRepo,
		workspaceRepo,
		authHelper,
		verifier,
		mailer,
		uploader,
		services.Options{
			ResetBaseURL:  cfg.ResetBaseURL,
			VerifyBaseURL: cfg.VerifyBaseURL,
			UploadFolder:  cfg.UploadFolder,
		},
		m,
		log,
	)

	// ---------- HTTP ----------
	app := NewApp(cfg, log, m)
	userHandler := handlers.NewUserHandler(userSvc, authHelper, handlers.Options{
		SecureCookie:         cfg.IsProduction(),
		RequireVerifiedEmail: cfg.RequireVerifiedEmail,
	}, log)
	userHandler.SetupRoutes(app)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.ServerPort))
		errCh <- app.Listen(cfg.ServerPort)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

// NewApp builds the fiber app with the shared middleware, health check and
// metrics endpoint. Routes are registered by the caller.
func NewApp(cfg config.Config, log *zap.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		BodyLimit:    6 << 20,
	})

	app.Use(middleware.RequestLogger(log, m))
	app.Use(recover.New())

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- Health ----------
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	return app
}

func errorHandler(ctx *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ctx.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error":   fe.Message,
		})
	}
	return utils.ResponseError(ctx, err)
}

func migrate(db *gorm.DB) error {
	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(&domain.User{}, &domain.Workspace{}); err != nil {
		return fmt.Errorf("migration: %w", err)
	}
	return nil
}

func newUploader(cfg config.Config) (interfaces.Uploader, error) {
	switch cfg.StorageProvider {
	case config.StorageAzure:
		up, err := azblob.New(cfg.AzureBlobAccount, cfg.AzureBlobKey, cfg.AzureBlobContainer)
		if err != nil {
			return nil, fmt.Errorf("azure blob init: %w", err)
		}
		return up, nil
	default:
		cld, err := cloudinary.New(cfg.CloudinaryUrl)
		if err != nil {
			return nil, fmt.Errorf("cloudinary init: %w", err)
		}
		return cloudinary.NewCloudinaryUploader(cld), nil
	}
}

// newMailer sends directly over SMTP or hands the mail to the worker via
// kafka. The returned func releases the transport.
func newMailer(cfg config.Config, log *zap.Logger) (interfaces.Mailer, func()) {
	if cfg.MailTransport == config.MailTransportKafka {
		producer := queue.NewProducer(
			cfg.Kafka.KafkaBroker,
			cfg.Kafka.KafkaTopic,
			cfg.Kafka.KafkaUsername,
			cfg.Kafka.KafkaPassword,
		)
		log.Info("mail via kafka", zap.String("broker", cfg.Kafka.KafkaBroker), zap.String("topic", cfg.Kafka.KafkaTopic))
		return mail.NewQueueMailer(producer), func() { _ = producer.Close() }
	}
	return mail.NewSMTPMailer(smtpConfig(cfg.SMTP), log), func() {}
}

// smtpConfig converts the env settings into the mailer's config.
func smtpConfig(c config.SMTPConfig) mail.SMTPConfig {
	return mail.SMTPConfig{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		From:     c.MailFrom,
		FromName: c.MailFromName,
	}
}
