package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/trth/performance-api/api/swagger"
	"github.com/trth/performance-api/internal/handler"
	"github.com/trth/performance-api/internal/middleware"
	"github.com/trth/performance-api/internal/models"
	"github.com/trth/performance-api/internal/repository"
	"github.com/trth/performance-api/internal/service"
	"github.com/trth/performance-api/pkg/cache"
	"github.com/trth/performance-api/pkg/config"
	"github.com/trth/performance-api/pkg/database"
	"github.com/trth/performance-api/pkg/jobs"
	"github.com/trth/performance-api/pkg/logger"
	corsmiddleware "github.com/trth/performance-api/pkg/middleware/cors"
	reqidmiddleware "github.com/trth/performance-api/pkg/middleware/requestid"
	"github.com/trth/performance-api/pkg/storage"
)

// @title Performance Assessment API
// @version 1.0.0
// @description Employee performance assessment workflow service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, permission cache disabled", "error", err)
	}

	reportArchive, err := storage.NewReportArchive(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report archive", "error", err)
	}
	signer := storage.NewDownloadSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	// repositories
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	delegationRepo := repository.NewDelegationRepository(db)
	orgRepo := repository.NewOrgRepository(db)

	var cacheRepo *repository.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	// services
	metricsSvc := service.NewMetricsService()
	var permCache service.PermissionCache
	if cacheRepo != nil {
		permCache = cacheRepo
	}
	delegationSvc := service.NewDelegationService(delegationRepo, employeeRepo, permCache, userRepo, cfg.Admin.EmpCode, cfg.Delegations.CacheTTL, nil, logr)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, cfg.Admin.EmpCode, nil, logr)
	userSvc := service.NewUserService(userRepo, nil, logr)
	employeeSvc := service.NewEmployeeService(employeeRepo, delegationSvc, userRepo, nil, logr)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, responseRepo, employeeRepo, questionRepo, delegationSvc, userRepo, nil, logr)
	responseSvc := service.NewResponseService(responseRepo, assessmentRepo, questionRepo, nil, logr)
	questionSvc := service.NewQuestionService(questionRepo, delegationSvc, nil, logr)
	orgSvc := service.NewOrgService(orgRepo, nil, logr)
	reportSvc := service.NewReportService(assessmentRepo, employeeRepo, delegationSvc, reportArchive, signer, nil, logr)

	// handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	employeeHandler := handler.NewEmployeeHandler(employeeSvc)
	assessmentHandler := handler.NewAssessmentHandler(assessmentSvc, responseSvc, metricsSvc)
	questionHandler := handler.NewQuestionHandler(questionSvc)
	delegationHandler := handler.NewDelegationHandler(delegationSvc)
	orgHandler := handler.NewOrgHandler(orgSvc)
	reportHandler := handler.NewReportHandler(reportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsSvc))
	}

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		protected := api.Group("", middleware.JWT(authSvc))
		{
			assessments := protected.Group("/assessments")
			{
				assessments.GET("", assessmentHandler.List)
				assessments.GET("/summary", assessmentHandler.Summary)
				assessments.GET("/:id", assessmentHandler.Get)
				assessments.POST("", assessmentHandler.Create)
				assessments.POST("/:id/decision", assessmentHandler.Decide)
				assessments.DELETE("/:id", assessmentHandler.Delete)
				assessments.GET("/:id/responses", assessmentHandler.ListResponses)
				assessments.PUT("/:id/responses", assessmentHandler.SaveResponses)
			}

			manageEmployees := middleware.RequirePermission(delegationSvc, models.PermManageEmployees)
			employees := protected.Group("/employees")
			{
				employees.GET("", employeeHandler.List)
				employees.GET("/stats", employeeHandler.Stats)
				employees.GET("/:empCode", employeeHandler.Get)
				employees.POST("", manageEmployees, employeeHandler.Create)
				employees.PUT("/:empCode", manageEmployees, employeeHandler.Update)
				employees.DELETE("/:empCode", manageEmployees, employeeHandler.Delete)
			}

			manageQuestions := middleware.RequirePermission(delegationSvc, models.PermManageQuestions)
			questions := protected.Group("/questions")
			{
				questions.GET("", questionHandler.List)
				questions.GET("/:id", questionHandler.Get)
				questions.POST("", manageQuestions, questionHandler.Create)
				questions.POST("/reorder", manageQuestions, questionHandler.Reorder)
				questions.PUT("/:id", manageQuestions, questionHandler.Update)
				questions.DELETE("/:id", manageQuestions, questionHandler.Delete)
			}

			delegations := protected.Group("/delegations")
			{
				delegations.GET("", delegationHandler.List)
				delegations.GET("/check", delegationHandler.Check)
				delegations.GET("/:id", delegationHandler.Get)
				delegations.POST("", middleware.RequireAdmin(), delegationHandler.Create)
				delegations.PUT("/:id", middleware.RequireAdmin(), delegationHandler.Update)
				delegations.DELETE("/:id", middleware.RequireAdmin(), delegationHandler.Revoke)
			}

			org := protected.Group("/org")
			{
				org.GET("/:kind", orgHandler.List)
				org.POST("/:kind", middleware.RequireAdmin(), orgHandler.Create)
				org.PUT("/units/:id", middleware.RequireAdmin(), orgHandler.Update)
				org.DELETE("/units/:id", middleware.RequireAdmin(), orgHandler.Delete)
			}

			users := protected.Group("/users", middleware.RequireAdmin())
			{
				users.GET("", userHandler.List)
				users.GET("/:id", userHandler.Get)
				users.POST("", userHandler.Create)
				users.PUT("/:id", userHandler.Update)
				users.DELETE("/:id", userHandler.Delete)
			}

			reports := protected.Group("/reports")
			{
				reports.POST("",
					middleware.RequirePermission(delegationSvc, models.PermViewReports),
					middleware.Audit(userRepo, models.AuditActionReportExport, "report"),
					reportHandler.Generate)
			}

			if cfg.Metrics.Enabled {
				protected.GET("/ops/status", middleware.RequireAdmin(), metricsHandler.Status)
			}
		}

		// token in the query string authorises the download
		api.GET("/reports/download", reportHandler.Download)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := jobs.NewRunner(jobs.Config{Workers: 1, MaxAttempts: 3, Backoff: time.Minute, Logger: logr})
	runner.Handle(jobs.KindDelegationSweep, func(jobCtx context.Context, _ jobs.Task) error {
		count, err := delegationSvc.DeactivateExpired(jobCtx)
		if err != nil {
			return err
		}
		metricsSvc.RecordSweep(count)
		return nil
	})
	runner.Handle(jobs.KindReportCleanup, func(context.Context, jobs.Task) error {
		_, err := reportSvc.Cleanup(cfg.Reports.Retention)
		return err
	})
	runner.Start(ctx)
	defer runner.Stop()

	schedule := func(interval time.Duration, kind jobs.Kind) {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := runner.Enqueue(jobs.Task{ID: uuid.NewString(), Kind: kind}); err != nil {
						logr.Warn("failed to enqueue task", zap.String("kind", string(kind)), zap.Error(err))
					}
				}
			}
		}()
	}
	schedule(cfg.Delegations.SweepInterval, jobs.KindDelegationSweep)
	schedule(cfg.Reports.CleanupInterval, jobs.KindReportCleanup)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
