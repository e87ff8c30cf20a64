package reporting_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore/sqlstoretest"
	"github.com/Adeela565/ClickSafe/internal/service/reporting"
)

type seeded struct {
	store    *sqlstore.Store
	svc      *reporting.Service
	campaign *domain.Campaign
	alice    *domain.Recipient
	bob      *domain.Recipient
}

func seed(t *testing.T) *seeded {
	t.Helper()
	ctx := context.Background()
	clock := sqlstoretest.NewClock(time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC))
	s := sqlstoretest.New(t, sqlstore.WithClock(clock.Now))

	it, err := s.CreateDepartment(ctx, "IT")
	require.NoError(t, err)
	alice := &domain.Recipient{Email: "alice@corp.example", DepartmentID: &it.ID}
	require.NoError(t, s.CreateRecipient(ctx, alice))
	bob := &domain.Recipient{Email: "bob@corp.example"}
	require.NoError(t, s.CreateRecipient(ctx, bob))

	c, err := s.CreateCampaign(ctx, domain.TemplateSecurityAlert.Info().Subject, domain.TemplateSecurityAlert)
	require.NoError(t, err)
	c.Name = domain.CampaignName(c.ID, "Security Alert")
	require.NoError(t, s.RenameCampaign(ctx, c.ID, c.Name))

	ip := "198.51.100.4"
	for _, e := range []domain.Event{
		{CampaignID: c.ID, RecipientID: alice.ID, Type: domain.EventDelivered},
		{CampaignID: c.ID, RecipientID: bob.ID, Type: domain.EventDelivered},
		{CampaignID: c.ID, RecipientID: alice.ID, Type: domain.EventClicked, IP: &ip},
		{CampaignID: c.ID, RecipientID: bob.ID, Type: domain.EventReported},
	} {
		e := e
		_, err := s.InsertEvent(ctx, &e)
		require.NoError(t, err)
	}
	return &seeded{store: s, svc: reporting.NewService(s), campaign: c, alice: alice, bob: bob}
}

func TestWriteCSV(t *testing.T) {
	sd := seed(t)
	var buf bytes.Buffer

	n, err := sd.svc.WriteCSV(context.Background(), &buf, &sd.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, reporting.ExportColumns, records[0])
	assert.Equal(t, "reported", records[1][4], "newest event first")
	assert.Equal(t, "bob@corp.example", records[1][3])
	assert.Equal(t, sd.campaign.Name, records[1][2])
	assert.Equal(t, "198.51.100.4", records[2][5])
	assert.Equal(t, "2024-06-10 12:00:06", records[2][6])
	assert.Equal(t, "", records[4][5])
}

func TestWriteCSV_UnknownCampaignIsHeaderOnly(t *testing.T) {
	sd := seed(t)
	var buf bytes.Buffer
	missing := int64(424242)

	n, err := sd.svc.WriteCSV(context.Background(), &buf, &missing)
	require.NoError(t, err)
	assert.Zero(t, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, reporting.ExportColumns, records[0])
}

func TestWriteXLSX(t *testing.T) {
	sd := seed(t)
	var buf bytes.Buffer

	n, err := sd.svc.WriteXLSX(context.Background(), &buf, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Events")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, reporting.ExportColumns, rows[0])

	delivered, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", delivered)
}

func TestRecipientHistory(t *testing.T) {
	sd := seed(t)
	ctx := context.Background()

	h, err := sd.svc.RecipientHistory(ctx, sd.alice.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, "alice@corp.example", h.Recipient.Email)
	assert.Len(t, h.Events, 2)
	assert.Equal(t, 1, h.Totals[domain.EventDelivered])
	assert.Equal(t, 1, h.Totals[domain.EventClicked])
	assert.Equal(t, 0, h.Totals[domain.EventReported])

	clicked := domain.EventClicked
	h, err = sd.svc.RecipientHistory(ctx, sd.alice.ID, &clicked)
	require.NoError(t, err)
	assert.Len(t, h.Events, 1)
	assert.Equal(t, 0, h.Totals[domain.EventDelivered])

	_, err = sd.svc.RecipientHistory(ctx, 9999, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDashboard(t *testing.T) {
	sd := seed(t)

	d, err := sd.svc.Dashboard(context.Background(), &sd.campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Summary{Delivered: 2, Clicked: 1, Reported: 1}, d.Summary)
	assert.InDelta(t, 50.0, d.ClickRate, 0.001)
	assert.Equal(t, []domain.DailyCount{{Day: "2024-06-10", Count: 1}}, d.DailyClicks)
	require.Len(t, d.CampaignRates, 1)
	assert.InDelta(t, 50.0, d.CampaignRates[0].ReportRate, 0.001)
	require.Len(t, d.Departments, 1)
	assert.Equal(t, "IT", d.Departments[0].DepartmentName)
	assert.Len(t, d.Interactions, 2)
	assert.Len(t, d.Campaigns, 1)
}

type memObjects struct {
	key  string
	body string
}

func (m *memObjects) Put(_ context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.key, m.body = key, string(data)
	return "s3://bucket/" + key, nil
}

func TestArchiveCSV(t *testing.T) {
	sd := seed(t)
	objects := &memObjects{}

	loc, err := sd.svc.ArchiveCSV(context.Background(), objects, "exports/", nil,
		time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "exports/20240701T083000Z_clicksafe_events.csv", objects.key)
	assert.Equal(t, "s3://bucket/"+objects.key, loc)
	assert.Contains(t, objects.body, "event_id,campaign_id,campaign_name")
}
