package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uncoded/onboarding-api/docs"
	"github.com/uncoded/onboarding-api/internal/config"
	"github.com/uncoded/onboarding-api/internal/database"
	"github.com/uncoded/onboarding-api/internal/http/handler"
	"github.com/uncoded/onboarding-api/internal/http/middleware"
	"github.com/uncoded/onboarding-api/internal/http/router"
	"github.com/uncoded/onboarding-api/internal/logger"
	"github.com/uncoded/onboarding-api/internal/mailer"
	"github.com/uncoded/onboarding-api/internal/ocr"
	"github.com/uncoded/onboarding-api/internal/repository"
	"github.com/uncoded/onboarding-api/internal/service"
	"github.com/uncoded/onboarding-api/internal/storage"
	"go.uber.org/zap"
)

// @title Uncoded Onboarding API
// @version 1.0
// @description Partner onboarding API for registration, workflow processing and go-live
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@uncoded.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite demo mode has no migration step, so migrate the schema here
	if cfg.Database.Driver == "sqlite" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize storage
	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Pick the outgoing mail transport
	var mail mailer.Mailer
	simulated := cfg.Email.Mode != "ses"
	if simulated {
		mail = mailer.NewSimulationMailer(log)
		log.Info("Email in simulation mode, messages are logged instead of sent")
	} else {
		mail, err = mailer.NewSESMailer(ctx, cfg.Email.AWSRegion, cfg.Email.Sender)
		if err != nil {
			return fmt.Errorf("failed to initialize SES mailer: %w", err)
		}
		log.Info("SES mailer initialized", zap.String("region", cfg.Email.AWSRegion))
	}

	// Pick the cheque text recognizer
	var recognizer ocr.Recognizer
	if cfg.OCR.Mode == "tesseract" {
		recognizer = ocr.NewTesseractRecognizer(cfg.OCR.TesseractPath)
		log.Info("OCR using tesseract", zap.String("binary", cfg.OCR.TesseractPath))
	} else {
		recognizer = &ocr.PassthroughRecognizer{}
		log.Info("OCR in passthrough mode, uploads are treated as plain text")
	}

	// Initialize repositories
	partnerRepo := repository.NewPartnerRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	milestoneRepo := repository.NewMilestoneRepository(db)
	bosTaskRepo := repository.NewBOSTaskRepository(db)
	pricingTaskRepo := repository.NewPricingTaskRepository(db)
	portalUserRepo := repository.NewPortalUserRepository(db)
	mappingRepo := repository.NewMappingRepository(db)
	emailLogRepo := repository.NewEmailLogRepository(db)

	// Initialize services
	notificationService := service.NewNotificationService(
		mappingRepo, emailLogRepo, mail, simulated, cfg.Selection.BaseURL, log)
	onboardingService := service.NewOnboardingService(
		partnerRepo, locationRepo, milestoneRepo, bosTaskRepo, pricingTaskRepo,
		portalUserRepo, mappingRepo, notificationService, log)
	mappingService := service.NewMappingService(mappingRepo, log)
	analyticsService := service.NewAnalyticsService(
		partnerRepo, milestoneRepo, bosTaskRepo, pricingTaskRepo, emailLogRepo, log)
	documentService := service.NewDocumentService(fileStorage, recognizer, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	maxUploadBytes := cfg.Storage.MaxUploadSizeMB << 20
	partnerHandler := handler.NewPartnerHandler(onboardingService, notificationService, log)
	bosHandler := handler.NewBOSHandler(onboardingService, log)
	pricingHandler := handler.NewPricingHandler(onboardingService, log)
	adminHandler := handler.NewAdminHandler(mappingService, analyticsService, notificationService, maxUploadBytes, log)
	selectionHandler := handler.NewSelectionHandler(onboardingService, log)
	documentHandler := handler.NewDocumentHandler(documentService, maxUploadBytes, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		rateLimiter,
		partnerHandler,
		bosHandler,
		pricingHandler,
		adminHandler,
		selectionHandler,
		documentHandler,
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
