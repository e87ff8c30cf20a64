package campaign

import (
	"context"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Repository defines the data access contract for campaigns.
// Implementations must be safe for concurrent use.
type Repository interface {
	// CreateCampaign inserts a campaign under domain.PlaceholderCampaignName
	// and returns it with its id.
	CreateCampaign(ctx context.Context, subject string, key domain.TemplateKey) (*domain.Campaign, error)

	// RenameCampaign sets the final name once the id is known.
	RenameCampaign(ctx context.Context, id int64, name string) error

	GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error)

	// ListCampaigns returns campaigns newest first.
	ListCampaigns(ctx context.Context) ([]domain.Campaign, error)

	// ListAssignedRecipients returns every recipient with a department,
	// ordered by email.
	ListAssignedRecipients(ctx context.Context) ([]domain.Recipient, error)

	// ListRecipientsInDepartments returns the union of the departments'
	// recipients, each once, ordered by email.
	ListRecipientsInDepartments(ctx context.Context, departmentIDs []int64) ([]domain.Recipient, error)

	// DeleteCampaigns removes the campaigns and their events atomically and
	// returns the number of campaigns removed. Failures are reported as
	// *domain.BulkOperationError with nothing changed.
	DeleteCampaigns(ctx context.Context, ids []int64, all bool) (int64, error)
}

// EventRecorder records the delivered event after each send.
type EventRecorder interface {
	RecordType(ctx context.Context, campaignID, recipientID int64, t domain.EventType, ip string) (bool, error)
}

// SendObserver is told about every send attempt.
type SendObserver interface {
	EmailSent()
	EmailSendFailed()
}
