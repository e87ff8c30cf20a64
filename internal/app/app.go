// Package app wires the ClickSafe services from a loaded configuration.
// The server binaries and the admin CLI share it so every entry point
// talks to the same store, renderer and transport.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adeela565/ClickSafe/internal/auth"
	"github.com/Adeela565/ClickSafe/internal/config"
	"github.com/Adeela565/ClickSafe/internal/mailer"
	"github.com/Adeela565/ClickSafe/internal/metrics"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore"
	"github.com/Adeela565/ClickSafe/internal/service/campaign"
	"github.com/Adeela565/ClickSafe/internal/service/directory"
	"github.com/Adeela565/ClickSafe/internal/service/events"
	"github.com/Adeela565/ClickSafe/internal/service/reporting"
	"github.com/Adeela565/ClickSafe/internal/service/sending"
	"github.com/Adeela565/ClickSafe/internal/storage"
	"github.com/Adeela565/ClickSafe/internal/templates"
	"github.com/Adeela565/ClickSafe/internal/tracking"
)

// App holds every long-lived collaborator.
type App struct {
	Config    *config.Config
	Store     *sqlstore.Store
	Metrics   *metrics.Registry
	Renderer  *templates.Renderer
	Recorder  *events.Recorder
	Sender    sending.Sender
	Directory *directory.Service
	Campaigns *campaign.Service
	Reports   *reporting.Service
	Tracking  *tracking.Handler

	redis   *redis.Client
	closers []func() error
}

type options struct {
	sender         sending.Sender
	runtimeMetrics bool
}

// Option customizes New.
type Option func(*options)

// WithSender replaces the configured mail transport.
func WithSender(s sending.Sender) Option { return func(o *options) { o.sender = s } }

// WithRuntimeMetrics adds the Go runtime and process collectors to the
// metrics registry.
func WithRuntimeMetrics() Option { return func(o *options) { o.runtimeMetrics = true } }

// New opens the database, applies pending migrations and builds the
// services. Close releases what New opened.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, dialect, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, closers: []func() error{db.Close}}

	applied, err := sqlstore.Migrate(ctx, db, dialect)
	if err != nil {
		a.Close()
		return nil, err
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", "dialect", string(dialect), "versions", applied)
	}

	if a.Renderer, err = templates.New(); err != nil {
		a.Close()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	a.Sender = o.sender
	if a.Sender == nil {
		if a.Sender, err = mailer.New(ctx, cfg); err != nil {
			a.Close()
			return nil, fmt.Errorf("mail transport: %w", err)
		}
	}

	a.Store = sqlstore.New(db, dialect)
	a.Metrics = metrics.NewRegistry(o.runtimeMetrics)
	a.Recorder = events.NewRecorder(a.Store, a.Metrics)
	a.Directory = directory.NewService(a.Store)
	a.Campaigns = campaign.NewService(a.Store, a.Recorder, a.Sender, a.Renderer, campaign.WithObserver(a.Metrics))
	a.Reports = reporting.NewService(a.Store)
	a.Tracking = tracking.NewHandler(tracking.NewService(a.Store, a.Recorder), a.Renderer)
	return a, nil
}

// Redis returns the session Redis client, or nil when sessions live in
// memory or SessionStore has not been called yet.
func (a *App) Redis() *redis.Client { return a.redis }

// SessionStore builds the store selected by auth.session_store. The
// in-memory store is pruned until ctx ends.
func (a *App) SessionStore(ctx context.Context) (auth.SessionStore, error) {
	if a.Config.Auth.SessionStore == "redis" {
		client, err := auth.NewRedisClient(ctx, a.Config.Redis.URL)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.closers = append(a.closers, client.Close)
		return auth.NewRedisStore(client, a.Config.Redis.KeyPrefix), nil
	}
	mem := auth.NewMemoryStore()
	go mem.RunCleanup(ctx, 10*time.Minute)
	return mem, nil
}

// Archive returns the export archive: S3 when a bucket is configured,
// otherwise the local export directory. The string is the key prefix.
func (a *App) Archive(ctx context.Context) (reporting.ObjectStore, string, error) {
	exp := a.Config.Export
	if exp.S3Bucket != "" {
		region := exp.S3Region
		if region == "" {
			region = a.Config.SES.Region
		}
		client, err := storage.NewS3Client(ctx, region)
		if err != nil {
			return nil, "", err
		}
		return storage.NewS3Store(client, exp.S3Bucket), exp.S3Prefix, nil
	}
	local, err := storage.NewLocalStore(exp.LocalDir)
	if err != nil {
		return nil, "", err
	}
	return local, exp.S3Prefix, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
