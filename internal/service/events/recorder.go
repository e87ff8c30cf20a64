package events

import (
	"context"
	"strings"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// Recorder is the single write path for events.
type Recorder struct {
	repo     Repository
	observer Observer
}

// NewRecorder creates a recorder. observer may be nil.
func NewRecorder(repo Repository, observer Observer) *Recorder {
	return &Recorder{repo: repo, observer: observer}
}

// Record stores an event of the given type for the pair. For clicked and
// reported it returns false when the pair already has one; the stored IP is
// always the one from the first call. An empty ip is stored as NULL.
func (r *Recorder) Record(ctx context.Context, campaignID, recipientID int64, eventType string, ip string) (bool, error) {
	t, err := domain.ParseEventType(eventType)
	if err != nil {
		return false, err
	}
	return r.RecordType(ctx, campaignID, recipientID, t, ip)
}

// RecordType is Record for an already-validated type.
func (r *Recorder) RecordType(ctx context.Context, campaignID, recipientID int64, t domain.EventType, ip string) (bool, error) {
	e := &domain.Event{CampaignID: campaignID, RecipientID: recipientID, Type: t}
	if ip = strings.TrimSpace(ip); ip != "" {
		e.IP = &ip
	}

	created, err := r.repo.InsertEvent(ctx, e)
	if err != nil {
		return false, err
	}
	if r.observer != nil {
		r.observer.EventRecorded(t, created)
	}
	if t.Deduplicated() {
		logger.Debug("event recorded",
			"campaign_id", campaignID, "recipient_id", recipientID,
			"type", string(t), "created", created)
	}
	return created, nil
}
