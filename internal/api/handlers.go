// Package api serves the administrator JSON API and mounts the public
// tracking routes next to it.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/service/campaign"
	"github.com/Adeela565/ClickSafe/internal/service/directory"
	"github.com/Adeela565/ClickSafe/internal/service/reporting"
)

// Previewer renders a template with inert links. Implemented by
// templates.Renderer.
type Previewer interface {
	PreviewEmail(key domain.TemplateKey) (string, error)
}

// Reports is the reporting surface the handlers use.
type Reports interface {
	Summarize(ctx context.Context, campaignID *int64) (domain.Summary, error)
	ListEvents(ctx context.Context, f domain.EventFilter) ([]domain.EventRow, error)
	Dashboard(ctx context.Context, campaignID *int64) (*reporting.Dashboard, error)
	RecipientHistory(ctx context.Context, recipientID int64, t *domain.EventType) (*domain.RecipientHistory, error)
	WriteCSV(ctx context.Context, w io.Writer, campaignID *int64) (int, error)
	WriteXLSX(ctx context.Context, w io.Writer, campaignID *int64) (int, error)
	ArchiveCSV(ctx context.Context, store reporting.ObjectStore, prefix string, campaignID *int64, now time.Time) (string, error)
}

// Handlers contains the admin HTTP handlers.
type Handlers struct {
	directory     *directory.Service
	campaigns     *campaign.Service
	reports       Reports
	previews      Previewer
	archive       reporting.ObjectStore
	archivePrefix string
	baseURL       string
	now           func() time.Time
}

// Config carries the non-service settings the handlers need.
type Config struct {
	// BaseURL is the public origin embedded in tracking links.
	BaseURL string
	// Archive receives exported CSVs. Nil disables /api/results/archive.
	Archive       reporting.ObjectStore
	ArchivePrefix string
}

// NewHandlers creates the admin handlers.
func NewHandlers(dir *directory.Service, campaigns *campaign.Service, reports Reports, previews Previewer, cfg Config) *Handlers {
	return &Handlers{
		directory:     dir,
		campaigns:     campaigns,
		reports:       reports,
		previews:      previews,
		archive:       cfg.Archive,
		archivePrefix: cfg.ArchivePrefix,
		baseURL:       cfg.BaseURL,
		now:           time.Now,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Field: name, Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return id, nil
}

// optionalID reads an optional positive integer from the query string.
func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, &domain.ValidationError{Field: name, Message: fmt.Sprintf("invalid id %q", raw)}
	}
	return &id, nil
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
