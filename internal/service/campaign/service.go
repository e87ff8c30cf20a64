package campaign

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/pkg/logger"
	"github.com/Adeela565/ClickSafe/internal/service/sending"
)

// Service launches and deletes campaigns. All public methods are safe for
// concurrent use if the collaborators are.
type Service struct {
	repo      Repository
	recorder  EventRecorder
	sender    sending.Sender
	renderer  sending.EmailRenderer
	cosmetics *Cosmetics
	observer  SendObserver
}

// Option configures a Service.
type Option func(*Service)

// WithCosmetics replaces the default decorative-value generator.
func WithCosmetics(c *Cosmetics) Option { return func(s *Service) { s.cosmetics = c } }

// WithObserver reports send attempts, typically to metrics.
func WithObserver(o SendObserver) Option { return func(s *Service) { s.observer = o } }

// NewService creates a campaign service.
func NewService(repo Repository, recorder EventRecorder, sender sending.Sender, renderer sending.EmailRenderer, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		recorder:  recorder,
		sender:    sender,
		renderer:  renderer,
		cosmetics: NewCosmetics(nil, nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LaunchRequest is the raw input of a send. TemplateKey is validated
// against the closed template catalog.
type LaunchRequest struct {
	TemplateKey string                   `json:"template"`
	Selector    domain.RecipientSelector `json:"selector"`
	BaseURL     string                   `json:"base_url"`
}

// Result reports what a launch did. On a transport failure SentCount is
// the number of recipients processed before it.
type Result struct {
	CampaignID   int64  `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Recipients   int    `json:"recipients"`
	SentCount    int    `json:"sent_count"`
}

// ClickURL is the tracking link that records a click.
func ClickURL(base string, campaignID, recipientID int64) string {
	return fmt.Sprintf("%s/l/%d/%d", strings.TrimRight(base, "/"), campaignID, recipientID)
}

// ReportURL is the tracking link that records a phishing report.
func ReportURL(base string, campaignID, recipientID int64) string {
	return fmt.Sprintf("%s/r/%d/%d", strings.TrimRight(base, "/"), campaignID, recipientID)
}

// Launch creates a campaign and sends it to the selected recipients.
//
// The template key and selector are validated before anything is written.
// Each recipient is rendered, sent and recorded in turn. The first
// transport failure stops the loop and is returned as a
// *domain.TransportError along with the partial Result; sends are never
// retried.
func (s *Service) Launch(ctx context.Context, req LaunchRequest) (*Result, error) {
	key, err := domain.ParseTemplateKey(req.TemplateKey)
	if err != nil {
		return nil, err
	}
	if err := req.Selector.Validate(); err != nil {
		return nil, err
	}
	base := strings.TrimRight(strings.TrimSpace(req.BaseURL), "/")
	if base == "" {
		return nil, errNoBaseURL
	}
	info := key.Info()

	c, err := s.repo.CreateCampaign(ctx, info.Subject, key)
	if err != nil {
		return nil, fmt.Errorf("create campaign: %w", err)
	}
	c.Name = domain.CampaignName(c.ID, info.DisplayName)
	if err := s.repo.RenameCampaign(ctx, c.ID, c.Name); err != nil {
		return nil, fmt.Errorf("name campaign: %w", err)
	}

	recipients, err := s.resolve(ctx, req.Selector)
	if err != nil {
		return nil, fmt.Errorf("resolve recipients: %w", err)
	}

	res := &Result{CampaignID: c.ID, CampaignName: c.Name, Recipients: len(recipients)}
	for i := range recipients {
		r := &recipients[i]
		if err := s.deliver(ctx, c, key, base, r); err != nil {
			var te *domain.TransportError
			if errors.As(err, &te) {
				te.Sent = res.SentCount
				logger.Error("campaign send aborted",
					"campaign_id", c.ID, "recipient", r.Email, "sent", res.SentCount, "error", te.Err)
			}
			return res, err
		}
		res.SentCount++
	}

	logger.Info("campaign launched",
		"campaign_id", c.ID, "template", string(key), "recipients", len(recipients), "sent", res.SentCount)
	return res, nil
}

func (s *Service) resolve(ctx context.Context, sel domain.RecipientSelector) ([]domain.Recipient, error) {
	if sel.UseAll {
		return s.repo.ListAssignedRecipients(ctx)
	}
	return s.repo.ListRecipientsInDepartments(ctx, uniqueIDs(sel.DepartmentIDs))
}

func (s *Service) deliver(ctx context.Context, c *domain.Campaign, key domain.TemplateKey, base string, r *domain.Recipient) error {
	cos := s.cosmetics.Draw()
	body, err := s.renderer.RenderEmail(key, sending.EmailData{
		RecipientName:  r.DisplayName(),
		RecipientEmail: r.Email,
		CampaignID:     c.ID,
		CampaignName:   c.Name,
		Subject:        c.Subject,
		ClickURL:       ClickURL(base, c.ID, r.ID),
		ReportURL:      ReportURL(base, c.ID, r.ID),
		SenderIP:       cos.SenderIP,
		Country:        cos.Country,
		Platform:       cos.Platform,
		Browser:        cos.Browser,
		Date:           cos.Date,
	})
	if err != nil {
		return fmt.Errorf("render %s for recipient %d: %w", key, r.ID, err)
	}

	msg := &domain.EmailMessage{
		CampaignID:  c.ID,
		RecipientID: r.ID,
		To:          r.Email,
		Subject:     c.Subject,
		HTMLBody:    body,
		TextBody:    domain.DefaultTextBody,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		if s.observer != nil {
			s.observer.EmailSendFailed()
		}
		return &domain.TransportError{Recipient: r.Email, Err: err}
	}
	if s.observer != nil {
		s.observer.EmailSent()
	}

	if _, err := s.recorder.RecordType(ctx, c.ID, r.ID, domain.EventDelivered, ""); err != nil {
		return fmt.Errorf("record delivery to recipient %d: %w", r.ID, err)
	}
	return nil
}

// SendTest renders a template with placeholder links and sends it to one
// address. Nothing is written to the database.
func (s *Service) SendTest(ctx context.Context, to, templateKey string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return errNoRecipient
	}
	key, err := domain.ParseTemplateKey(templateKey)
	if err != nil {
		return err
	}
	info := key.Info()
	cos := s.cosmetics.Draw()
	body, err := s.renderer.RenderEmail(key, sending.EmailData{
		RecipientName:  to,
		RecipientEmail: to,
		CampaignName:   "Test send",
		Subject:        info.Subject,
		ClickURL:       "#",
		ReportURL:      "#",
		SenderIP:       cos.SenderIP,
		Country:        cos.Country,
		Platform:       cos.Platform,
		Browser:        cos.Browser,
		Date:           cos.Date,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", key, err)
	}
	if err := s.sender.Send(ctx, &domain.EmailMessage{To: to, Subject: "[TEST] " + info.Subject, HTMLBody: body}); err != nil {
		return &domain.TransportError{Recipient: to, Err: err}
	}
	return nil
}

// List returns campaigns newest first.
func (s *Service) List(ctx context.Context) ([]domain.Campaign, error) {
	return s.repo.ListCampaigns(ctx)
}

// Get returns one campaign.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

// DeleteCampaigns removes the listed campaigns, or all of them, together
// with their events. An empty selection is a validation error and writes
// nothing.
func (s *Service) DeleteCampaigns(ctx context.Context, ids []int64, all bool) (int64, error) {
	if !all {
		ids = uniqueIDs(ids)
		if len(ids) == 0 {
			return 0, errEmptyDeletion
		}
	}
	n, err := s.repo.DeleteCampaigns(ctx, ids, all)
	if err != nil {
		logger.Error("bulk campaign delete failed", "error", err)
		return 0, err
	}
	logger.Info("campaigns deleted", "count", n, "all", all)
	return n, nil
}

// ParseSelection turns form values into campaign ids. The literal "ALL"
// anywhere in the list selects every campaign.
func ParseSelection(raw []string) (ids []int64, all bool, err error) {
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.EqualFold(v, "ALL") {
			return nil, true, nil
		}
		id, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil || id <= 0 {
			return nil, false, &domain.ValidationError{Field: "campaign_ids", Message: fmt.Sprintf("invalid campaign id %q", v)}
		}
		ids = append(ids, id)
	}
	return ids, false, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
