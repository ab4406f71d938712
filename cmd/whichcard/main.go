package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/config"
	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/handler"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/cache"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/memory"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/observability"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/settingsfile"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/supabase"
	"github.com/boddenberg/whichcard-bfa-go/internal/port"
	"github.com/boddenberg/whichcard-bfa-go/internal/service"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel, "whichcard-bfa")
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("use_supabase", cfg.SupabaseEnabled()),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Int("max_concurrency", cfg.MaxConcurrency),
		zap.Int("usage_queue_size", cfg.UsageQueueSize),
		zap.String("settings_file", cfg.SettingsFile),
		zap.Strings("cors_allowed_origins", cfg.CORSAllowedOrigins),
	)
	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET not set, profile tokens are signed with the development secret")
	}

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "whichcard-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Default settings ---
	defaults := domain.DefaultSettings()
	if cfg.SettingsFile != "" {
		defaults, err = settingsfile.Load(cfg.SettingsFile, defaults)
		if err != nil {
			logger.Fatal("failed to load settings file", zap.String("path", cfg.SettingsFile), zap.Error(err))
		}
		logger.Info("default settings overridden from file", zap.String("path", cfg.SettingsFile))
	}

	// --- Cache ---
	settingsCache := cache.New[domain.CardSettings](cfg.CacheTTL)
	defer settingsCache.Close()

	// --- Storage backends ---
	var (
		settingsStore port.SettingsStore
		usageSink     port.UsageSink
		healthChecks  = map[string]port.HealthChecker{}
	)

	if cfg.SupabaseEnabled() {
		logger.Info("using Supabase as data backend",
			zap.String("supabase_url", cfg.SupabaseURL),
		)
		resilienceCfg := resilience.Config{
			MaxRetries:     cfg.MaxRetries,
			InitialBackoff: cfg.InitialBackoff,
			MaxConcurrency: cfg.MaxConcurrency,
		}
		httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
		supabaseClient := supabase.NewClient(
			httpClient,
			cfg.SupabaseURL,
			cfg.SupabaseAnonKey,
			cfg.SupabaseServiceKey,
			resilience.NewCircuitBreaker("supabase", logger),
			resilienceCfg,
			logger,
		)
		settingsStore = supabaseClient
		usageSink = supabaseClient
		healthChecks["supabase"] = supabaseClient
	} else {
		logger.Warn("Supabase not configured: settings profiles kept in memory, usage logging disabled")
		memoryStore := memory.NewSettingsStore()
		settingsStore = memoryStore
		healthChecks["settings_store"] = memoryStore
	}

	// --- Services ---
	recommender := service.NewRecommender(metrics, logger)
	settingsSvc := service.NewSettingsService(
		settingsStore,
		settingsCache,
		service.NewProfileTokens(cfg.JWTSecret, cfg.ProfileTokenTTL),
		defaults,
		metrics,
		logger,
	)
	usageLogger := service.NewUsageLogger(usageSink, service.UsageLoggerConfig{
		Workers:      cfg.MaxConcurrency,
		QueueSize:    cfg.UsageQueueSize,
		WriteTimeout: cfg.UsageWriteTimeout,
		IPHashSalt:   cfg.IPHashSalt,
	}, metrics, logger)
	usageLogger.Start()

	// --- Router ---
	router := handler.NewRouter(handler.Services{
		Recommender: recommender,
		Settings:    settingsSvc,
		Usage:       usageLogger,
		Health:      healthChecks,
		Metrics:     metrics,
	}, handler.Config{
		ConsentCookieName: cfg.ConsentCookieName,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		SecureCookies:     cfg.SecureCookies,
	}, logger)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", zap.Error(err))
	}
	if err := usageLogger.Close(ctx); err != nil {
		logger.Error("usage logger did not drain", zap.Error(err))
	}

	logger.Info("server stopped")
}
