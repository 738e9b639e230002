package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdia/sitegate/internal/auth"
	"github.com/pdia/sitegate/internal/config"
	"github.com/pdia/sitegate/internal/handlers"
	middlewareCustom "github.com/pdia/sitegate/internal/middleware"
	"github.com/pdia/sitegate/internal/routes"
	"github.com/pdia/sitegate/internal/services"
	"github.com/pdia/sitegate/internal/store"
	pkghttp "github.com/pdia/sitegate/pkg/http"
	pkglogger "github.com/pdia/sitegate/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded",
		slog.String("env", cfg.Server.Env),
		slog.String("data_dir", cfg.Storage.DataDir))

	// Initialize stores
	attemptStore, err := store.NewAttemptStore(cfg.AttemptsFile())
	if err != nil {
		logger.Error("failed to open attempt store", slog.Any("error", err))
		os.Exit(1)
	}
	blacklistStore, err := store.NewBlacklistStore(cfg.BlacklistFile())
	if err != nil {
		logger.Error("failed to open blacklist store", slog.Any("error", err))
		os.Exit(1)
	}
	suspiciousStore, err := store.NewSuspiciousStore(cfg.SuspiciousFile(), cfg.Security.SuspiciousLimit)
	if err != nil {
		logger.Error("failed to open suspicious-activity store", slog.Any("error", err))
		os.Exit(1)
	}
	visitorStore, err := store.NewVisitorStore(cfg.AnalyticsFile(), cfg.Analytics.VisitorLimit)
	if err != nil {
		logger.Error("failed to open visitor store", slog.Any("error", err))
		os.Exit(1)
	}

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Threat detection rules
	rules, err := services.LoadRuleSet(cfg.Security.RulesFile)
	if err != nil {
		logger.Error("failed to load threat rules", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	lockoutService := services.NewLockoutService(
		attemptStore, cfg.Security.MaxLoginAttempts, cfg.Security.LockoutDuration, logger)
	threatService, err := services.NewThreatService(
		blacklistStore, suspiciousStore, rules, logger, auditLogger)
	if err != nil {
		logger.Error("failed to initialize threat detection", slog.Any("error", err))
		os.Exit(1)
	}
	analyticsService := services.NewAnalyticsService(visitorStore, cfg.Analytics.Salt, logger)
	unlockService := services.NewUnlockService(
		attemptStore, blacklistStore, suspiciousStore, logger, auditLogger)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTimeout)
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   100,
		RandomDelayMs: 100,
	})
	authService := services.NewAuthService(
		lockoutService, tokenManager, timingDelay, cfg.Auth, logger, auditLogger)

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	cookieConfig := auth.CookieConfig{Secure: cfg.Server.Env == "production"}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenManager, cookieConfig, ipConfig)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, threatService)
	unlockHandler := handlers.NewUnlockHandler(unlockService, cfg.Auth.UnlockSecret, ipConfig)

	securityGate := middlewareCustom.NewSecurityGate(threatService, analyticsService, ipConfig, logger)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(securityGate.Handler)

	routes.RegisterRoutes(router, authHandler, analyticsHandler, unlockHandler, tokenManager)

	// Static site: uploaded images plus the built SPA with an
	// index.html fallback for client-side routes.
	router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.Server.UploadsDir))))
	router.NotFound(spaHandler(cfg.Server.StaticDir))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// spaHandler serves files from the built site directory, falling back
// to index.html for paths without an extension so client-side routing
// keeps working after a refresh.
func spaHandler(staticDir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(staticDir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(staticDir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		if strings.Contains(filepath.Base(r.URL.Path), ".") {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
	}
}
