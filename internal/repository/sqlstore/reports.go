package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// Summarize counts delivered, clicked and reported events, optionally for
// one campaign.
func (s *Store) Summarize(ctx context.Context, campaignID *int64) (domain.Summary, error) {
	q := `SELECT event_type, COUNT(*) FROM events`
	var args []any
	if campaignID != nil {
		q += ` WHERE campaign_id = ?`
		args = append(args, *campaignID)
	}
	q += ` GROUP BY event_type`

	rows, err := s.db.QueryContext(ctx, s.q(q), args...)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("summarize: %w", err)
	}
	defer rows.Close()

	var sum domain.Summary
	for rows.Next() {
		var (
			typ string
			n   int
		)
		if err := rows.Scan(&typ, &n); err != nil {
			return domain.Summary{}, fmt.Errorf("scan summary: %w", err)
		}
		switch domain.EventType(typ) {
		case domain.EventDelivered:
			sum.Delivered = n
		case domain.EventClicked:
			sum.Clicked = n
		case domain.EventReported:
			sum.Reported = n
		}
	}
	return sum, rows.Err()
}

const eventRowColumns = `
	SELECT e.id, e.campaign_id, c.name, r.email, e.event_type, COALESCE(e.ip, ''), e.ts
	FROM events e
	JOIN campaigns c ON c.id = e.campaign_id
	JOIN recipients r ON r.id = e.recipient_id`

func (s *Store) queryEventRows(ctx context.Context, op string, where []string, args []any) ([]domain.EventRow, error) {
	q := eventRowColumns
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY e.ts DESC, e.id DESC"

	rows, err := s.db.QueryContext(ctx, s.q(q), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := []domain.EventRow{}
	for rows.Next() {
		var (
			row domain.EventRow
			typ string
		)
		if err := rows.Scan(&row.EventID, &row.CampaignID, &row.CampaignName, &row.RecipientEmail,
			&typ, &row.IP, scanTime(&row.Timestamp)); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		row.Type = domain.EventType(typ)
		out = append(out, row)
	}
	return out, rows.Err()
}

// ListEvents returns events joined with campaign name and recipient email,
// newest first.
func (s *Store) ListEvents(ctx context.Context, f domain.EventFilter) ([]domain.EventRow, error) {
	var (
		where []string
		args  []any
	)
	if f.CampaignID != nil {
		where = append(where, "e.campaign_id = ?")
		args = append(args, *f.CampaignID)
	}
	if f.InteractionsOnly {
		where = append(where, "e.event_type IN (?, ?)")
		args = append(args, string(domain.EventClicked), string(domain.EventReported))
	}
	return s.queryEventRows(ctx, "list events", where, args)
}

// RecipientEvents returns one recipient's events, optionally of one type.
func (s *Store) RecipientEvents(ctx context.Context, recipientID int64, t *domain.EventType) ([]domain.EventRow, error) {
	where := []string{"e.recipient_id = ?"}
	args := []any{recipientID}
	if t != nil {
		where = append(where, "e.event_type = ?")
		args = append(args, string(*t))
	}
	return s.queryEventRows(ctx, "recipient events", where, args)
}

// DailyCounts counts events of one type per UTC calendar day, ascending.
func (s *Store) DailyCounts(ctx context.Context, t domain.EventType, campaignID *int64) ([]domain.DailyCount, error) {
	day := s.dialect.Day("ts")
	q := `SELECT ` + day + ` AS day, COUNT(*) FROM events WHERE event_type = ?`
	args := []any{string(t)}
	if campaignID != nil {
		q += ` AND campaign_id = ?`
		args = append(args, *campaignID)
	}
	q += ` GROUP BY ` + day + ` ORDER BY day`

	rows, err := s.db.QueryContext(ctx, s.q(q), args...)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	out := []domain.DailyCount{}
	for rows.Next() {
		var dc domain.DailyCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// CampaignRates returns delivered and reported counts for every campaign
// that has either. Both groupings are merged on campaign id so a campaign
// with only one kind still appears.
func (s *Store) CampaignRates(ctx context.Context) ([]domain.CampaignRate, error) {
	rows, err := s.db.QueryContext(ctx, s.q(`
		SELECT k.campaign_id, c.name,
		       COALESCE(dl.n, 0), COALESCE(rp.n, 0)
		FROM (
			SELECT campaign_id FROM events WHERE event_type = ?
			UNION
			SELECT campaign_id FROM events WHERE event_type = ?
		) k
		JOIN campaigns c ON c.id = k.campaign_id
		LEFT JOIN (
			SELECT campaign_id, COUNT(*) AS n FROM events WHERE event_type = ? GROUP BY campaign_id
		) dl ON dl.campaign_id = k.campaign_id
		LEFT JOIN (
			SELECT campaign_id, COUNT(*) AS n FROM events WHERE event_type = ? GROUP BY campaign_id
		) rp ON rp.campaign_id = k.campaign_id
		ORDER BY k.campaign_id
	`), string(domain.EventDelivered), string(domain.EventReported),
		string(domain.EventDelivered), string(domain.EventReported))
	if err != nil {
		return nil, fmt.Errorf("campaign rates: %w", err)
	}
	defer rows.Close()

	out := []domain.CampaignRate{}
	for rows.Next() {
		var cr domain.CampaignRate
		if err := rows.Scan(&cr.CampaignID, &cr.CampaignName, &cr.Delivered, &cr.Reported); err != nil {
			return nil, fmt.Errorf("scan campaign rate: %w", err)
		}
		if cr.Delivered > 0 {
			cr.ReportRate = float64(cr.Reported) / float64(cr.Delivered) * 100
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}

// DepartmentClicks counts clicked events per department through the
// recipient. Recipients without a department are grouped under a nil id.
func (s *Store) DepartmentClicks(ctx context.Context, campaignID *int64) ([]domain.DepartmentCount, error) {
	q := `
		SELECT r.department_id, d.name, COUNT(*)
		FROM events e
		JOIN recipients r ON r.id = e.recipient_id
		LEFT JOIN departments d ON d.id = r.department_id
		WHERE e.event_type = ?`
	args := []any{string(domain.EventClicked)}
	if campaignID != nil {
		q += ` AND e.campaign_id = ?`
		args = append(args, *campaignID)
	}
	q += `
		GROUP BY r.department_id, d.name
		ORDER BY COUNT(*) DESC, d.name`

	rows, err := s.db.QueryContext(ctx, s.q(q), args...)
	if err != nil {
		return nil, fmt.Errorf("department clicks: %w", err)
	}
	defer rows.Close()

	out := []domain.DepartmentCount{}
	for rows.Next() {
		var (
			dc     domain.DepartmentCount
			deptID *int64
			name   *string
		)
		if err := rows.Scan(&deptID, &name, &dc.Clicked); err != nil {
			return nil, fmt.Errorf("scan department clicks: %w", err)
		}
		dc.DepartmentID = deptID
		dc.DepartmentName = domain.UnassignedDepartment
		if name != nil {
			dc.DepartmentName = *name
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}
