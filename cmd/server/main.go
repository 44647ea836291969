package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mediagate/internal/core/ports"
	"mediagate/internal/core/services"
	httphandlers "mediagate/internal/handlers/http"
	"mediagate/internal/infrastructure/middleware"
	"mediagate/internal/infrastructure/monitoring"
	repositories "mediagate/internal/infrastructure/repositories"
	"mediagate/pkg/config"
	"mediagate/pkg/logger"
	"mediagate/pkg/tracing"
	"mediagate/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/mediagate/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		// Fallback to defaults if config cannot be loaded
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()

	// Initialize tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "mediagate",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: cfg.Tracing.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Warnw("failed to initialize tracing", "error", err)
	}

	// Initialize repository factory
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	// Initialize repositories
	resourceRepo := repoFactory.CreateResourceRepository()
	groupRepo := repoFactory.CreateGroupRepository()
	codeRepo := repoFactory.CreateAccessCodeRepository()
	var generationStore ports.GenerationStore = repoFactory.CreateGenerationStore()

	// Export decision, token, and revocation metrics when Prometheus is
	// on. The generation store is wrapped before service wiring so every
	// write path's bumps are counted.
	var collector *monitoring.PrometheusCollector
	if cfg.Monitoring.PrometheusEnabled {
		collector = monitoring.NewPrometheusCollector()
		generationStore = monitoring.NewInstrumentedGenerationStore(generationStore, collector)
	}

	// Initialize services
	metricsService := services.NewMetricsService()
	var authzService ports.AuthzService = services.NewAuthzService(resourceRepo, groupRepo, codeRepo, metricsService)
	var delegationService ports.DelegationService = services.NewDelegationService(
		authzService,
		generationStore,
		cfg.Delegation.Secret,
		cfg.Delegation.TokenTTL,
		metricsService,
	)
	if collector != nil {
		authzService = monitoring.NewInstrumentedAuthzService(authzService, collector)
		delegationService = monitoring.NewInstrumentedDelegationService(delegationService, collector)
	}
	resourceService := services.NewResourceService(resourceRepo, groupRepo, authzService, generationStore)
	groupService := services.NewGroupService(groupRepo, resourceRepo, generationStore)
	codeService := services.NewCodeService(codeRepo, resourceRepo, groupRepo, authzService, generationStore)
	if collector != nil {
		resourceService = monitoring.NewInstrumentedResourceService(resourceService, collector)
		codeService = monitoring.NewInstrumentedCodeService(codeService, codeRepo, collector)
	}
	authService := services.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	// Initialize HTTP handlers
	authHandler := httphandlers.NewAuthHandler(authService)
	resourceHandler := httphandlers.NewResourceHandler(resourceService, authzService)
	groupHandler := httphandlers.NewGroupHandler(groupService)
	codeHandler := httphandlers.NewCodeHandler(codeService, authzService)
	streamHandler := httphandlers.NewStreamHandler(delegationService)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	// Global HTTP rate limiting (if enabled)
	router.Use(middleware.NewHTTPRateLimitMiddleware(cfg))

	// Credential middlewares: auth rejects unauthenticated requests,
	// subject resolution admits everyone and lets the engine decide.
	auth := middleware.AuthMiddleware(authService)
	subject := middleware.SubjectMiddleware(authService)

	authHandler.SetupRoutes(router)
	resourceHandler.SetupRoutes(router, auth, subject)
	groupHandler.SetupRoutes(router, auth)
	codeHandler.SetupRoutes(router, auth)
	streamHandler.SetupRoutes(router, subject)

	// Health check endpoint
	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddRepositoryCheck(resourceRepo, 30*time.Second, 2*time.Second)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    utils.FormatDuration(time.Since(startTime)),
			"decisions": metricsService.Stats(),
		})
	})

	// Readiness endpoint
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := repoFactory.HealthCheck(ctx); err != nil {
			c.JSON(503, gin.H{
				"status":       "not_ready",
				"timestamp":    time.Now(),
				"dependencies": "unhealthy",
				"error":        err.Error(),
			})
			return
		}

		status := healthChecker.CheckAll(ctx)
		if status.Status != "healthy" {
			c.JSON(503, gin.H{
				"status":    "not_ready",
				"timestamp": time.Now(),
				"checks":    status.Checks,
			})
			return
		}

		c.JSON(200, gin.H{
			"status":       "ready",
			"timestamp":    time.Now(),
			"dependencies": "ok",
		})
	})

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting MediaGate server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down MediaGate server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server gracefully
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		// Force close if graceful shutdown fails
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	// Flush tracer
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Errorw("Error shutting down tracer", "error", err)
		}
	}

	// Close repository factory
	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("MediaGate server stopped")
}
