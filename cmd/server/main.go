package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Adeela565/ClickSafe/internal/api"
	"github.com/Adeela565/ClickSafe/internal/app"
	"github.com/Adeela565/ClickSafe/internal/auth"
	"github.com/Adeela565/ClickSafe/internal/config"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// checkPortAvailable fails fast when another process already holds the port.
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use: %v", addr, err)
	}
	return ln.Close()
}

func main() {
	cfg, err := config.LoadFromEnv(os.Getenv("CLICKSAFE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	closeLog := logger.Configure(logger.Options{
		Level:      cfg.Log.Level,
		RedactPII:  cfg.Log.Redact(),
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer closeLog()

	addr := cfg.Server.Addr()
	if err := checkPortAvailable(addr); err != nil {
		log.Fatalf("Pre-flight check failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, app.WithRuntimeMetrics())
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	sessions, err := a.SessionStore(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize session store: %v", err)
	}
	authManager, err := auth.NewManager(cfg.Auth, sessions)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	authManager.SetSecureCookies(strings.HasPrefix(cfg.Tracking.BaseURL, "https://"))

	archive, prefix, err := a.Archive(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize export archive: %v", err)
	}

	handlers := api.NewHandlers(a.Directory, a.Campaigns, a.Reports, a.Renderer, api.Config{
		BaseURL:       cfg.Tracking.BaseURL,
		Archive:       archive,
		ArchivePrefix: prefix,
	})
	router := api.SetupRoutes(handlers, api.RouterDeps{
		Auth:        authManager,
		Tracking:    a.Tracking,
		Metrics:     a.Metrics,
		Health:      api.NewHealthChecker(a.Store.DB(), a.Redis()),
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", "addr", addr, "transport", cfg.Mail.Transport,
			"database", cfg.Database.Driver, "sessions", cfg.Auth.SessionStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	logger.Info("server stopped")
}
