package reporting

import (
	"context"
	"fmt"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Service serves reporting views. Safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates a reporting service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summarize returns delivered, clicked and reported counts, optionally for
// one campaign.
func (s *Service) Summarize(ctx context.Context, campaignID *int64) (domain.Summary, error) {
	return s.repo.Summarize(ctx, campaignID)
}

// ListEvents returns joined event rows, newest first.
func (s *Service) ListEvents(ctx context.Context, f domain.EventFilter) ([]domain.EventRow, error) {
	return s.repo.ListEvents(ctx, f)
}

// DailyClicks returns clicked events per UTC day, ascending.
func (s *Service) DailyClicks(ctx context.Context, campaignID *int64) ([]domain.DailyCount, error) {
	return s.repo.DailyCounts(ctx, domain.EventClicked, campaignID)
}

// CampaignReportRates returns delivered vs reported per campaign.
func (s *Service) CampaignReportRates(ctx context.Context) ([]domain.CampaignRate, error) {
	return s.repo.CampaignRates(ctx)
}

// DepartmentClicks returns clicked counts per department. Recipients with
// no department are reported as domain.UnassignedDepartment.
func (s *Service) DepartmentClicks(ctx context.Context, campaignID *int64) ([]domain.DepartmentCount, error) {
	return s.repo.DepartmentClicks(ctx, campaignID)
}

// RecipientHistory returns every event of one recipient, optionally of one
// type, with per-type totals over the returned events.
func (s *Service) RecipientHistory(ctx context.Context, recipientID int64, eventType *domain.EventType) (*domain.RecipientHistory, error) {
	r, err := s.repo.GetRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.RecipientEvents(ctx, recipientID, eventType)
	if err != nil {
		return nil, err
	}
	totals := make(map[domain.EventType]int, len(domain.EventTypes))
	for _, t := range domain.EventTypes {
		totals[t] = 0
	}
	for _, row := range rows {
		totals[row.Type]++
	}
	return &domain.RecipientHistory{Recipient: *r, Events: rows, Totals: totals}, nil
}

// Dashboard bundles every view for one page load.
type Dashboard struct {
	CampaignID    *int64                   `json:"campaign_id,omitempty"`
	Summary       domain.Summary           `json:"summary"`
	ClickRate     float64                  `json:"click_rate"`
	ReportRate    float64                  `json:"report_rate"`
	DailyClicks   []domain.DailyCount      `json:"daily_clicks"`
	CampaignRates []domain.CampaignRate    `json:"campaign_rates"`
	Departments   []domain.DepartmentCount `json:"departments"`
	Interactions  []domain.EventRow        `json:"interactions"`
	Campaigns     []domain.Campaign        `json:"campaigns"`
}

// Dashboard computes the results page for one campaign or all of them.
func (s *Service) Dashboard(ctx context.Context, campaignID *int64) (*Dashboard, error) {
	d := &Dashboard{CampaignID: campaignID}
	var err error
	if d.Summary, err = s.repo.Summarize(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	d.ClickRate = d.Summary.ClickRate()
	d.ReportRate = d.Summary.ReportRate()
	if d.DailyClicks, err = s.repo.DailyCounts(ctx, domain.EventClicked, campaignID); err != nil {
		return nil, fmt.Errorf("dashboard daily clicks: %w", err)
	}
	if d.CampaignRates, err = s.repo.CampaignRates(ctx); err != nil {
		return nil, fmt.Errorf("dashboard campaign rates: %w", err)
	}
	if d.Departments, err = s.repo.DepartmentClicks(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("dashboard departments: %w", err)
	}
	if d.Interactions, err = s.repo.ListEvents(ctx, domain.EventFilter{CampaignID: campaignID, InteractionsOnly: true}); err != nil {
		return nil, fmt.Errorf("dashboard interactions: %w", err)
	}
	if d.Campaigns, err = s.repo.ListCampaigns(ctx); err != nil {
		return nil, fmt.Errorf("dashboard campaigns: %w", err)
	}
	return d, nil
}
