package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Adeela565/ClickSafe/internal/domain"
)

// InsertEvent appends an event. Clicked and reported events are inserted
// only if no event of the same type exists for the pair; the unique index
// makes that check atomic. It reports whether a row was written and fills
// e.ID and e.Timestamp when it was.
func (s *Store) InsertEvent(ctx context.Context, e *domain.Event) (bool, error) {
	now := s.now().UTC()
	query := `
		INSERT INTO events (campaign_id, recipient_id, event_type, ip, ts)
		VALUES (?, ?, ?, ?, ?)`
	if e.Type.Deduplicated() {
		query += `
		ON CONFLICT DO NOTHING`
	}
	query += `
		RETURNING id`

	var ip any
	if e.IP != nil {
		ip = *e.IP
	}
	err := s.db.QueryRowContext(ctx, s.q(query),
		e.CampaignID, e.RecipientID, string(e.Type), ip, s.dialect.timeArg(now),
	).Scan(&e.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.mapErr("insert event", err)
	}
	e.Timestamp = now
	return true, nil
}

// CountEvents counts events of one type for a pair. Used to verify the
// dedup invariant.
func (s *Store) CountEvents(ctx context.Context, campaignID, recipientID int64, t domain.EventType) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT COUNT(*) FROM events
		WHERE campaign_id = ? AND recipient_id = ? AND event_type = ?
	`), campaignID, recipientID, string(t)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// FirstEvent returns the oldest event of a type for a pair.
func (s *Store) FirstEvent(ctx context.Context, campaignID, recipientID int64, t domain.EventType) (*domain.Event, error) {
	e := &domain.Event{}
	var (
		typ string
		ip  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, campaign_id, recipient_id, event_type, ip, ts
		FROM events
		WHERE campaign_id = ? AND recipient_id = ? AND event_type = ?
		ORDER BY ts, id
		LIMIT 1
	`), campaignID, recipientID, string(t)).Scan(&e.ID, &e.CampaignID, &e.RecipientID, &typ, &ip, scanTime(&e.Timestamp))
	if err != nil {
		return nil, s.mapErr("first event", err)
	}
	e.Type = domain.EventType(typ)
	if ip.Valid {
		v := ip.String
		e.IP = &v
	}
	return e, nil
}
