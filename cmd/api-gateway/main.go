package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/tutor-adp-api/api/swagger"
	"github.com/noah-isme/tutor-adp-api/internal/handler"
	"github.com/noah-isme/tutor-adp-api/internal/middleware"
	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/repository"
	"github.com/noah-isme/tutor-adp-api/internal/service"
	"github.com/noah-isme/tutor-adp-api/pkg/cache"
	"github.com/noah-isme/tutor-adp-api/pkg/config"
	"github.com/noah-isme/tutor-adp-api/pkg/database"
	"github.com/noah-isme/tutor-adp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-adp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tutor-adp-api/pkg/middleware/requestid"
)

// @title Tutor ADP API
// @version 0.1.0
// @description Billing and debt reconciliation API for the tutoring center dashboard
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	// repositories
	studentRepo := repository.NewStudentRepository(db)
	classRepo := repository.NewClassRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	contractRepo := repository.NewContractRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// services
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, redisClient != nil)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	reconcileSvc := service.NewReconcileService(studentRepo, classRepo, invoiceRepo, metricsSvc, logr)
	settlementSvc := service.NewSettlementService(studentRepo, classRepo, invoiceRepo, reconcileSvc, metricsSvc, validate, logr, cfg.Billing.InvoiceCodePrefix)
	contractSvc := service.NewContractService(contractRepo, studentRepo, discountRepo, reconcileSvc, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, logr, cfg.Billing.ExpiringThreshold)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, invoiceRepo, cacheSvc, logr, cfg.Dashboard.CacheTTL, cfg.Billing.ExpiringThreshold)

	// handlers
	authHandler := handler.NewAuthHandler(authSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	contractHandler := handler.NewContractHandler(contractSvc)
	settlementHandler := handler.NewSettlementHandler(settlementSvc, dashboardSvc)
	reconcileHandler := handler.NewReconcileHandler(reconcileSvc, dashboardSvc)
	invoiceHandler := handler.NewInvoiceHandler(invoiceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))
	{
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/students", studentHandler.List)
		protected.GET("/students/:id", studentHandler.Get)
		protected.GET("/students/:id/projection", studentHandler.Projection)
		protected.GET("/students/:id/contracts", contractHandler.ListByStudent)
		protected.POST("/students/:id/reconcile", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), reconcileHandler.Reconcile)

		protected.GET("/discounts", contractHandler.ListDiscounts)
		protected.POST("/contracts/preview", contractHandler.PreviewPricing)
		protected.POST("/contracts", contractHandler.Create)
		protected.GET("/contracts/:id", contractHandler.Get)

		protected.POST("/settlements", middleware.RequireRoles(models.RoleAdmin), settlementHandler.Settle)

		protected.GET("/invoices", invoiceHandler.List)
		protected.GET("/invoices/export", invoiceHandler.Export)

		if cfg.Dashboard.Enabled {
			protected.GET("/dashboard/summary", dashboardHandler.Summary)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
