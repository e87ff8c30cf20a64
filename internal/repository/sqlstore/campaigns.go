package sqlstore

import (
	"context"
	"fmt"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// CreateCampaign inserts a campaign under the placeholder name and returns it
// with its generated id.
func (s *Store) CreateCampaign(ctx context.Context, subject string, key domain.TemplateKey) (*domain.Campaign, error) {
	c := &domain.Campaign{
		Name:        domain.PlaceholderCampaignName,
		Subject:     subject,
		TemplateKey: key,
		CreatedAt:   s.now().UTC(),
	}
	err := s.db.QueryRowContext(ctx, s.q(`
		INSERT INTO campaigns (name, subject, template_key, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), c.Name, c.Subject, string(c.TemplateKey), s.dialect.timeArg(c.CreatedAt)).Scan(&c.ID)
	if err != nil {
		return nil, s.mapErr("create campaign", err)
	}
	return c, nil
}

// RenameCampaign sets the campaign's final name.
func (s *Store) RenameCampaign(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE campaigns SET name = ? WHERE id = ?`), name, id)
	if err != nil {
		return fmt.Errorf("rename campaign: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("rename campaign %d", id))
}

// GetCampaign loads one campaign.
func (s *Store) GetCampaign(ctx context.Context, id int64) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	var key string
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, name, subject, template_key, created_at FROM campaigns WHERE id = ?
	`), id).Scan(&c.ID, &c.Name, &c.Subject, &key, scanTime(&c.CreatedAt))
	if err != nil {
		return nil, s.mapErr(fmt.Sprintf("get campaign %d", id), err)
	}
	c.TemplateKey = domain.TemplateKey(key)
	return c, nil
}

// ListCampaigns returns campaigns newest first.
func (s *Store) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, subject, template_key, created_at
		FROM campaigns
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	out := []domain.Campaign{}
	for rows.Next() {
		var (
			c   domain.Campaign
			key string
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Subject, &key, scanTime(&c.CreatedAt)); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		c.TemplateKey = domain.TemplateKey(key)
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCampaigns removes the given campaigns, or every campaign when all is
// set, deleting their events first. The whole change runs in one transaction;
// any failure rolls it back and is reported as a BulkOperationError.
func (s *Store) DeleteCampaigns(ctx context.Context, ids []int64, all bool) (int64, error) {
	n, err := s.deleteCampaigns(ctx, ids, all)
	if err != nil {
		return 0, &domain.BulkOperationError{Op: "delete campaigns", Err: err}
	}
	return n, nil
}

func (s *Store) deleteCampaigns(ctx context.Context, ids []int64, all bool) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	eventsQ := `DELETE FROM events`
	campaignsQ := `DELETE FROM campaigns`
	var args []any
	if !all {
		marks, inArgs := inClause(ids)
		eventsQ += ` WHERE campaign_id IN (` + marks + `)`
		campaignsQ += ` WHERE id IN (` + marks + `)`
		args = inArgs
	}

	if _, err := tx.ExecContext(ctx, s.q(eventsQ), args...); err != nil {
		return 0, fmt.Errorf("delete events: %w", err)
	}
	res, err := tx.ExecContext(ctx, s.q(campaignsQ), args...)
	if err != nil {
		return 0, fmt.Errorf("delete campaigns: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
