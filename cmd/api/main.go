package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fefaortiz/tear-api/api/swagger"
	"github.com/fefaortiz/tear-api/internal/handler"
	"github.com/fefaortiz/tear-api/internal/middleware"
	"github.com/fefaortiz/tear-api/internal/models"
	"github.com/fefaortiz/tear-api/internal/repository"
	"github.com/fefaortiz/tear-api/internal/service"
	"github.com/fefaortiz/tear-api/pkg/cache"
	"github.com/fefaortiz/tear-api/pkg/config"
	"github.com/fefaortiz/tear-api/pkg/database"
	"github.com/fefaortiz/tear-api/pkg/logger"
	corsmiddleware "github.com/fefaortiz/tear-api/pkg/middleware/cors"
	reqidmiddleware "github.com/fefaortiz/tear-api/pkg/middleware/requestid"
)

// @title TEAR API
// @version 1.0.0
// @description Daily mood and trait tracking for autistic patients, caregivers and therapists
// @BasePath /api
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	patientRepo := repository.NewPatientRepository(db)
	caregiverRepo := repository.NewCaregiverRepository(db)
	therapistRepo := repository.NewTherapistRepository(db)
	traitRepo := repository.NewTraitRepository(db)
	trackingRepo := repository.NewTrackingRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(patientRepo, caregiverRepo, therapistRepo, tokenRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	traitSvc := service.NewTraitService(traitRepo, trackingRepo, patientRepo, cacheSvc, validate, logr, cfg.Dashboard.CacheTTL)
	trackingSvc := service.NewTrackingService(trackingRepo, traitRepo, patientRepo, cacheSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(trackingRepo, traitSvc, patientRepo, cacheSvc, metricsSvc, logr, cfg.Dashboard.CacheTTL)
	patientSvc := service.NewPatientService(patientRepo, caregiverRepo, therapistRepo, validate, logr)
	exportSvc := service.NewExportService(traitRepo, trackingRepo, patientRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	traitHandler := handler.NewTraitHandler(traitSvc)
	trackingHandler := handler.NewTrackingHandler(trackingSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, trackingSvc)
	patientHandler := handler.NewPatientHandler(patientSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/snapshot", metricsHandler.Snapshot)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/registerPaciente", authHandler.RegisterPatient)
		auth.POST("/registerTerapeuta", authHandler.RegisterTherapist)
		auth.POST("/registerCuidador", authHandler.RegisterCaregiver)
	}

	authorized := api.Group("")
	authorized.Use(middleware.JWT(authSvc))

	authorized.POST("/auth/logout", authHandler.Logout)

	traits := authorized.Group("/traits")
	{
		traits.GET("/daily-tracking/:patientId", traitHandler.DailyTracking)
		traits.POST("/:patientId", middleware.RequireRoles(models.RolePatient, models.RoleCaregiver), traitHandler.Create)
		traits.DELETE("/:id", middleware.RequireRoles(models.RolePatient, models.RoleCaregiver), traitHandler.Delete)
	}

	tracking := authorized.Group("/tracking")
	{
		tracking.POST("/:traitId", middleware.RequireRoles(models.RolePatient, models.RoleCaregiver), trackingHandler.Track)
	}

	patientData := authorized.Group("/patient-data")
	{
		patientData.GET("/weekly-history/:traitId", dashboardHandler.WeeklyHistory)
		patientData.GET("/therapist-weekly-history/:traitId/:patientId", middleware.RequireRoles(models.RoleTherapist), dashboardHandler.TherapistWeeklyHistory)
		patientData.GET("/average-intensity/:patientId", dashboardHandler.AverageIntensity)
		patientData.GET("/therapist-average-intensity/:therapistId", middleware.RequireRoles(models.RoleTherapist), dashboardHandler.TherapistAverageIntensity)
		patientData.GET("/completion/:patientId", dashboardHandler.Completion)
		if cfg.Exports.Enabled {
			patientData.GET("/export/:patientId", exportHandler.WeeklyReport)
		}
	}

	patients := authorized.Group("/pacientes")
	{
		patients.GET("/porTerapeuta/:id", middleware.RequireRoles(models.RoleTherapist), patientHandler.ListByTherapist)
		patients.GET("/por-cuidador/:id", middleware.RequireRoles(models.RoleCaregiver), patientHandler.ListByCaregiver)
		patients.GET("/info_cuidador/:id", patientHandler.CaregiverInfo)
		patients.PUT("/:id", middleware.RequireRoles(models.RolePatient, models.RoleCaregiver), patientHandler.UpdatePatient)
	}

	authorized.PUT("/terapeutas/:id", middleware.RequireRoles(models.RoleTherapist), patientHandler.UpdateTherapist)
	authorized.PUT("/cuidadores/:id", middleware.RequireRoles(models.RoleCaregiver), patientHandler.UpdateCaregiver)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
