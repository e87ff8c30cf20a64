package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Adeela565/ClickSafe/internal/app"
	"github.com/Adeela565/ClickSafe/internal/config"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// The tracking binary serves only the public link and feedback routes, so
// it can be exposed to recipients while the admin API stays internal.
func main() {
	cfg, err := config.LoadFromEnv(os.Getenv("CLICKSAFE_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	closeLog := logger.Configure(logger.Options{
		Level:     cfg.Log.Level,
		RedactPII: cfg.Log.Redact(),
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer a.Close()

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(a.Metrics.Middleware)
	a.Tracking.Register(r)
	r.Get("/health", a.Tracking.HandleHealth)
	r.Handle("/metrics", a.Metrics.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("tracking service listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down tracking service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("tracking shutdown", "error", err)
	}
}
