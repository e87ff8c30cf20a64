package sqlstore_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func newPostgresMock(t *testing.T) (*sqlstore.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlstore.New(db, sqlstore.Postgres, sqlstore.WithClock(func() time.Time { return fixedNow })), mock
}

func TestRebind(t *testing.T) {
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b IN ($2, $3)",
		sqlstore.Postgres.Rebind("SELECT 1 WHERE a = ? AND b IN (?, ?)"))
	assert.Equal(t, "a = ?", sqlstore.SQLite.Rebind("a = ?"))
}

func TestParseDialect(t *testing.T) {
	d, err := sqlstore.ParseDialect("postgresql")
	require.NoError(t, err)
	assert.Equal(t, sqlstore.Postgres, d)

	_, err = sqlstore.ParseDialect("mysql")
	assert.Error(t, err)
}

func TestPostgres_InsertClickUsesOnConflict(t *testing.T) {
	s, mock := newPostgresMock(t)
	ip := "203.0.113.9"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO events (campaign_id, recipient_id, event_type, ip, ts)`) +
		`.*VALUES \(\$1, \$2, \$3, \$4, \$5\).*ON CONFLICT DO NOTHING.*RETURNING id`).
		WithArgs(int64(1), int64(2), "clicked", ip, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	created, err := s.InsertEvent(context.Background(), &domain.Event{CampaignID: 1, RecipientID: 2, Type: domain.EventClicked, IP: &ip})
	require.NoError(t, err)
	assert.False(t, created, "no row returned means the conflict path was taken")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_InsertDeliveredHasNoConflictClause(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(`INSERT INTO events .*VALUES \(\$1, \$2, \$3, \$4, \$5\)\s+RETURNING id`).
		WithArgs(int64(1), int64(2), "delivered", nil, fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(41)))

	e := &domain.Event{CampaignID: 1, RecipientID: 2, Type: domain.EventDelivered}
	created, err := s.InsertEvent(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, created)
	assert.EqualValues(t, 41, e.ID)
	assert.Equal(t, fixedNow, e.Timestamp)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ForeignKeyViolationIsNotFound(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(`INSERT INTO events`).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	_, err := s.InsertEvent(context.Background(), &domain.Event{CampaignID: 9, RecipientID: 9, Type: domain.EventReported})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgres_UniqueViolationIsConflict(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(`INSERT INTO departments \(name, created_at\) VALUES \(\$1, \$2\)`).
		WithArgs("Finance", fixedNow).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := s.CreateDepartment(context.Background(), " Finance ")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPostgres_DeleteCampaignsRollsBack(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM events WHERE campaign_id IN ($1, $2)`)).
		WithArgs(int64(3), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM campaigns WHERE id IN ($1, $2)`)).
		WithArgs(int64(3), int64(4)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.DeleteCampaigns(context.Background(), []int64{3, 4}, false)
	var bulk *domain.BulkOperationError
	require.ErrorAs(t, err, &bulk)
	assert.Contains(t, bulk.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DailyCountsTruncatesInUTC(t *testing.T) {
	s, mock := newPostgresMock(t)
	cid := int64(7)

	mock.ExpectQuery(regexp.QuoteMeta(`to_char(ts AT TIME ZONE 'UTC', 'YYYY-MM-DD')`) + `.*event_type = \$1 AND campaign_id = \$2`).
		WithArgs("clicked", cid).
		WillReturnRows(sqlmock.NewRows([]string{"day", "count"}).AddRow("2024-05-06", 3))

	days, err := s.DailyCounts(context.Background(), domain.EventClicked, &cid)
	require.NoError(t, err)
	assert.Equal(t, []domain.DailyCount{{Day: "2024-05-06", Count: 3}}, days)
}

func TestPostgres_GetCampaignNotFound(t *testing.T) {
	s, mock := newPostgresMock(t)

	mock.ExpectQuery(`SELECT id, name, subject, template_key, created_at FROM campaigns WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "subject", "template_key", "created_at"}))

	_, err := s.GetCampaign(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
