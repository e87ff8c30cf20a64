package tracking

import (
	"context"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Repository is the read side the link handler needs.
type Repository interface {
	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)
	GetRecipient(ctx context.Context, id int64) (*domain.Recipient, error)
	FirstEvent(ctx context.Context, campaignID, recipientID int64, t domain.EventType) (*domain.Event, error)
}

// Recorder writes events. Implemented by events.Recorder.
type Recorder interface {
	RecordType(ctx context.Context, campaignID, recipientID int64, t domain.EventType, ip string) (bool, error)
}
