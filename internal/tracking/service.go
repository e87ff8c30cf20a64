package tracking

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
)

// Service implements the click and report flows.
type Service struct {
	repo     Repository
	recorder Recorder
	now      func() time.Time
}

// NewService creates a tracking service.
func NewService(repo Repository, recorder Recorder) *Service {
	return &Service{repo: repo, recorder: recorder, now: time.Now}
}

// Target identifies the pair behind a tracking link.
type Target struct {
	Campaign  *domain.Campaign
	Recipient *domain.Recipient
}

func (s *Service) resolve(ctx context.Context, campaignID, recipientID int64) (*Target, error) {
	c, err := s.repo.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	r, err := s.repo.GetRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &Target{Campaign: c, Recipient: r}, nil
}

// FeedbackURL is the education page for a campaign's subject.
func FeedbackURL(subject string, campaignID, recipientID int64) string {
	q := url.Values{}
	q.Set("cid", strconv.FormatInt(campaignID, 10))
	q.Set("rid", strconv.FormatInt(recipientID, 10))

	if key, ok := domain.TemplateForSubject(subject); ok {
		return "/feedback/" + key.Info().FeedbackPage + "?" + q.Encode()
	}
	return "/feedback?" + q.Encode()
}

// HandleClick records a clicked event and returns the redirect location.
// Unknown campaign or recipient returns domain.ErrNotFound and records
// nothing.
func (s *Service) HandleClick(ctx context.Context, campaignID, recipientID int64, ip string) (string, error) {
	t, err := s.resolve(ctx, campaignID, recipientID)
	if err != nil {
		return "", err
	}
	created, err := s.recorder.RecordType(ctx, campaignID, recipientID, domain.EventClicked, ip)
	if err != nil {
		return "", fmt.Errorf("record click: %w", err)
	}
	logger.Info("click", "campaign_id", campaignID, "recipient_id", recipientID, "first", created)
	return FeedbackURL(t.Campaign.Subject, campaignID, recipientID), nil
}

// HandleReport records a reported event and returns the pair for the
// acknowledgement page.
func (s *Service) HandleReport(ctx context.Context, campaignID, recipientID int64, ip string) (*Target, error) {
	t, err := s.resolve(ctx, campaignID, recipientID)
	if err != nil {
		return nil, err
	}
	created, err := s.recorder.RecordType(ctx, campaignID, recipientID, domain.EventReported, ip)
	if err != nil {
		return nil, fmt.Errorf("record report: %w", err)
	}
	logger.Info("report", "campaign_id", campaignID, "recipient_id", recipientID, "first", created)
	return t, nil
}

// Lookup resolves optional ids from the feedback page. Missing, malformed
// or unknown ids yield a nil target and no error.
func (s *Service) Lookup(ctx context.Context, rawCampaignID, rawRecipientID string) (*Target, error) {
	cid, err1 := strconv.ParseInt(rawCampaignID, 10, 64)
	rid, err2 := strconv.ParseInt(rawRecipientID, 10, 64)
	if err1 != nil || err2 != nil || cid <= 0 || rid <= 0 {
		return nil, nil
	}
	t, err := s.resolve(ctx, cid, rid)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return t, err
}

// ReportFromFeedback records a reported event submitted from the
// feedback form. Absent or unknown ids are ignored.
func (s *Service) ReportFromFeedback(ctx context.Context, rawCampaignID, rawRecipientID, ip string) (*Target, error) {
	t, err := s.Lookup(ctx, rawCampaignID, rawRecipientID)
	if err != nil || t == nil {
		return nil, err
	}
	if _, err := s.recorder.RecordType(ctx, t.Campaign.ID, t.Recipient.ID, domain.EventReported, ip); err != nil {
		return nil, fmt.Errorf("record report: %w", err)
	}
	return t, nil
}

// Landing describes a recorded click.
type Landing struct {
	Target
	At time.Time
	IP string
}

// Landing returns the first recorded click for the pair, or the current
// time and ip when none was recorded.
func (s *Service) Landing(ctx context.Context, campaignID, recipientID int64, ip string) (*Landing, error) {
	t, err := s.resolve(ctx, campaignID, recipientID)
	if err != nil {
		return nil, err
	}
	l := &Landing{Target: *t, At: s.now().UTC(), IP: ip}

	e, err := s.repo.FirstEvent(ctx, campaignID, recipientID, domain.EventClicked)
	switch {
	case err == nil:
		l.At = e.Timestamp.UTC()
		if e.IP != nil {
			l.IP = *e.IP
		}
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return l, nil
}

// ThankYou resolves the pair for the thank-you page.
func (s *Service) ThankYou(ctx context.Context, campaignID, recipientID int64) (*Target, error) {
	return s.resolve(ctx, campaignID, recipientID)
}
