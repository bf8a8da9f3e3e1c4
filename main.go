package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"golang.org/x/sync/errgroup"

	database "github.com/FACorreiaa/go-tourism-recommender/app/db"
	appLogger "github.com/FACorreiaa/go-tourism-recommender/app/logger"
	appMiddleware "github.com/FACorreiaa/go-tourism-recommender/app/middleware"
	"github.com/FACorreiaa/go-tourism-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-tourism-recommender/app/tracer"
	"github.com/FACorreiaa/go-tourism-recommender/config"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/analytics"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/auth"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/packages"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/preferences"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/ratings"
	"github.com/FACorreiaa/go-tourism-recommender/internal/api/recommendations"
	appRouter "github.com/FACorreiaa/go-tourism-recommender/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	promHandler, promAddr := tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- Database Setup ---
	dbConfig, err := database.NewDatabaseConfig(&cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		os.Exit(1)
	}

	// Run migrations before initializing the main pool
	if err = database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
		logger.Error("Failed to run database migrations", slog.Any("error", err))
		os.Exit(1)
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if !database.WaitForDB(ctx, pool, logger) {
		logger.Error("Database not ready after waiting, exiting.")
		os.Exit(1)
	}

	// --- Dependency Injection ---
	authRepo := auth.NewAuthRepo(pool, logger)
	authService := auth.NewAuthService(authRepo, &cfg, logger)
	authHandler := auth.NewAuthHandler(authService, logger)

	preferencesRepo := preferences.NewPreferencesRepo(pool, logger)
	preferencesService := preferences.NewPreferencesService(preferencesRepo, logger)
	preferencesHandler := preferences.NewPreferencesHandler(preferencesService, logger)

	recommendationsRepo := recommendations.NewRecommendationsRepo(pool, logger)
	recommendationsService := recommendations.NewRecommendationsService(
		recommendationsRepo, logger,
		cfg.Catalog.FunctionTierLimit, cfg.Catalog.FallbackTierLimit,
	)
	recommendationsHandler := recommendations.NewRecommendationsHandler(recommendationsService, preferencesService, logger)

	packagesRepo := packages.NewPackagesRepo(pool, logger, cfg.Catalog.FilterCacheTTL)
	packagesService := packages.NewPackagesService(packagesRepo, logger)
	packagesHandler := packages.NewPackagesHandler(packagesService, preferencesService, logger)

	ratingsRepo := ratings.NewRatingsRepo(pool, logger)
	ratingsService := ratings.NewRatingsService(ratingsRepo, logger)
	ratingsHandler := ratings.NewRatingsHandler(ratingsService, logger)

	analyticsRepo := analytics.NewAnalyticsRepo(pool, logger)
	analyticsService := analytics.NewAnalyticsService(analyticsRepo, logger)
	analyticsHandler := analytics.NewAnalyticsHandler(analyticsService, logger)

	// --- Router Setup ---
	routerConfig := &appRouter.Config{
		AuthHandler:            authHandler,
		PreferencesHandler:     preferencesHandler,
		RecommendationsHandler: recommendationsHandler,
		PackagesHandler:        packagesHandler,
		RatingsHandler:         ratingsHandler,
		AnalyticsHandler:       analyticsHandler,
		AuthenticateMiddleware: appMiddleware.Authenticate([]byte(cfg.JWT.SecretKey)),
	}
	mainRouter := appRouter.SetupRouter(routerConfig)

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	// --- HTTP Servers ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promHandler)
	metricsSrv := &http.Server{
		Addr:    promAddr,
		Handler: metricsMux,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting metrics server", slog.String("address", promAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		logger.Info("Shutdown signal received, starting graceful shutdown...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server graceful shutdown failed", slog.Any("error", err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("Application shut down complete.")
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production
		jsonOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
