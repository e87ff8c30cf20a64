package reporting

import (
	"context"
	"io"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Repository is the read side of the event store.
type Repository interface {
	Summarize(ctx context.Context, campaignID *int64) (domain.Summary, error)
	ListEvents(ctx context.Context, f domain.EventFilter) ([]domain.EventRow, error)
	DailyCounts(ctx context.Context, t domain.EventType, campaignID *int64) ([]domain.DailyCount, error)
	CampaignRates(ctx context.Context) ([]domain.CampaignRate, error)
	DepartmentClicks(ctx context.Context, campaignID *int64) ([]domain.DepartmentCount, error)
	GetRecipient(ctx context.Context, id int64) (*domain.Recipient, error)
	RecipientEvents(ctx context.Context, recipientID int64, t *domain.EventType) ([]domain.EventRow, error)
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)
}

// ObjectStore stores export archives.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}
