package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/uncoded/onboarding-api/internal/config"
	"github.com/uncoded/onboarding-api/internal/database"
	"github.com/uncoded/onboarding-api/internal/http/handler"
	"github.com/uncoded/onboarding-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/uncoded/onboarding-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	rateLimiter      *middleware.RateLimiter
	partnerHandler   *handler.PartnerHandler
	bosHandler       *handler.BOSHandler
	pricingHandler   *handler.PricingHandler
	adminHandler     *handler.AdminHandler
	selectionHandler *handler.SelectionHandler
	documentHandler  *handler.DocumentHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	partnerHandler *handler.PartnerHandler,
	bosHandler *handler.BOSHandler,
	pricingHandler *handler.PricingHandler,
	adminHandler *handler.AdminHandler,
	selectionHandler *handler.SelectionHandler,
	documentHandler *handler.DocumentHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		rateLimiter:      rateLimiter,
		partnerHandler:   partnerHandler,
		bosHandler:       bosHandler,
		pricingHandler:   pricingHandler,
		adminHandler:     adminHandler,
		selectionHandler: selectionHandler,
		documentHandler:  documentHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		if !allHealthy {
			status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// Public brand-channel selection callback. The SPOC email form posts
	// here, so it stays outside /api/v1 and renders HTML instead of JSON.
	r.Post("/public/brand-channel-selection", rt.selectionHandler.Select)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Partners
		r.Route("/partners", func(r chi.Router) {
			r.Get("/", rt.partnerHandler.List)
			r.Post("/", rt.partnerHandler.Register)
			r.Get("/{id}", rt.partnerHandler.Get)
			r.Get("/{id}/milestones", rt.partnerHandler.Milestones)
			r.Get("/{id}/brand-channel-options", rt.partnerHandler.BrandChannelOptions)
			r.Post("/{id}/notify-spoc", rt.partnerHandler.NotifySpoc)
			r.Post("/{id}/locations", rt.partnerHandler.AddLocation)
			r.Get("/{id}/users", rt.partnerHandler.ListUsers)
			r.Post("/{id}/users", rt.partnerHandler.CreateUser)
			r.Post("/{id}/finalize", rt.partnerHandler.Finalize)
		})

		// BOS work queue
		r.Route("/bos/tasks", func(r chi.Router) {
			r.Get("/", rt.bosHandler.List)
			r.Post("/{id}/complete", rt.bosHandler.Complete)
		})

		// Pricing work queue
		r.Route("/pricing/tasks", func(r chi.Router) {
			r.Get("/", rt.pricingHandler.List)
			r.Post("/{id}/complete", rt.pricingHandler.Complete)
		})

		// Admin: mapping management, analytics, email logs
		r.Route("/admin", func(r chi.Router) {
			r.Route("/spoc-mappings", func(r chi.Router) {
				r.Get("/", rt.adminHandler.ListSpocMappings)
				r.Put("/", rt.adminHandler.UpsertSpocMapping)
				r.Delete("/{id}", rt.adminHandler.DeleteSpocMapping)
				r.Post("/import", rt.adminHandler.ImportSpocMappings)
				r.Get("/template", rt.adminHandler.SpocMappingTemplate)
			})
			r.Route("/brand-channel-mappings", func(r chi.Router) {
				r.Get("/", rt.adminHandler.ListBrandChannelMappings)
				r.Put("/", rt.adminHandler.UpsertBrandChannelMapping)
				r.Delete("/{id}", rt.adminHandler.DeleteBrandChannelMapping)
				r.Post("/import", rt.adminHandler.ImportBrandChannelMappings)
				r.Get("/template", rt.adminHandler.BrandChannelMappingTemplate)
			})
			r.Get("/analytics", rt.adminHandler.Analytics)
			r.Get("/email-logs", rt.adminHandler.EmailLogs)
		})

		// Documents
		r.Post("/documents/cheque", rt.documentHandler.UploadCheque)
	})

	return r
}
