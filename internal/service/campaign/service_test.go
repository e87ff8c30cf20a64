package campaign_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adeela565/ClickSafe/internal/domain"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore"
	"github.com/Adeela565/ClickSafe/internal/repository/sqlstore/sqlstoretest"
	"github.com/Adeela565/ClickSafe/internal/service/campaign"
	"github.com/Adeela565/ClickSafe/internal/service/events"
	"github.com/Adeela565/ClickSafe/internal/service/sending"
)

// fakeSender records messages and fails for addresses listed in failFor.
type fakeSender struct {
	mu      sync.Mutex
	sent    []*domain.EmailMessage
	failFor map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg *domain.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[msg.To] {
		return errors.New("550 mailbox unavailable")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeRenderer struct {
	data []sending.EmailData
}

func (f *fakeRenderer) RenderEmail(key domain.TemplateKey, d sending.EmailData) (string, error) {
	f.data = append(f.data, d)
	return "<p>" + string(key) + "</p><a href=\"" + d.ClickURL + "\">open</a>", nil
}

type counters struct{ sent, failed int }

func (c *counters) EmailSent()       { c.sent++ }
func (c *counters) EmailSendFailed() { c.failed++ }

type harness struct {
	store    *sqlstore.Store
	sender   *fakeSender
	renderer *fakeRenderer
	counters *counters
	svc      *campaign.Service
	recorder *events.Recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := sqlstoretest.New(t)
	h := &harness{
		store:    s,
		sender:   &fakeSender{failFor: map[string]bool{}},
		renderer: &fakeRenderer{},
		counters: &counters{},
		recorder: events.NewRecorder(s, nil),
	}
	h.svc = campaign.NewService(s, h.recorder, h.sender, h.renderer,
		campaign.WithObserver(h.counters),
		campaign.WithCosmetics(campaign.NewCosmetics(rand.NewPCG(1, 2), func() time.Time {
			return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		})),
	)
	return h
}

func (h *harness) department(t *testing.T, name string, emails ...string) *domain.Department {
	t.Helper()
	ctx := context.Background()
	d, err := h.store.CreateDepartment(ctx, name)
	require.NoError(t, err)
	for _, e := range emails {
		require.NoError(t, h.store.CreateRecipient(ctx, &domain.Recipient{Email: e, DepartmentID: &d.ID}))
	}
	return d
}

func TestLaunch_FinanceScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	finance := h.department(t, "Finance", "a@x.com")

	res, err := h.svc.Launch(ctx, campaign.LaunchRequest{
		TemplateKey: "password_reset",
		Selector:    domain.RecipientSelector{DepartmentIDs: []int64{finance.ID}},
		BaseURL:     "https://phish.example/",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.SentCount)
	assert.Contains(t, res.CampaignName, "#"+itoa(res.CampaignID))
	assert.Equal(t, "Campaign #"+itoa(res.CampaignID)+" - Password Reset", res.CampaignName)

	c, err := h.store.GetCampaign(ctx, res.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, res.CampaignName, c.Name)
	assert.Equal(t, domain.TemplatePasswordReset.Info().Subject, c.Subject)

	rows, err := h.store.ListEvents(ctx, domain.EventFilter{CampaignID: &res.CampaignID})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.EventDelivered, rows[0].Type)
	assert.Equal(t, "a@x.com", rows[0].RecipientEmail)

	require.Len(t, h.sender.sent, 1)
	msg := h.sender.sent[0]
	assert.Equal(t, "a@x.com", msg.To)
	assert.Equal(t, domain.DefaultTextBody, msg.Text())

	require.Len(t, h.renderer.data, 1)
	d := h.renderer.data[0]
	assert.Equal(t, "https://phish.example/l/"+itoa(res.CampaignID)+"/"+itoa(recipientID(t, h, "a@x.com")), d.ClickURL)
	assert.True(t, strings.HasPrefix(d.ReportURL, "https://phish.example/r/"))
	assert.Equal(t, 1, h.counters.sent)
}

func TestLaunch_EmptySelectionWritesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.department(t, "Finance", "a@x.com")

	res, err := h.svc.Launch(ctx, campaign.LaunchRequest{
		TemplateKey: "password_reset",
		Selector:    domain.RecipientSelector{UseAll: false},
		BaseURL:     "https://phish.example",
	})
	assert.Nil(t, res)
	assert.True(t, domain.IsValidation(err))

	list, err := h.store.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	sum, err := h.store.Summarize(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, sum)
	assert.Empty(t, h.sender.sent)
}

func TestLaunch_UnknownTemplateRejectedBeforeWrites(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.svc.Launch(ctx, campaign.LaunchRequest{
		TemplateKey: "lottery_win",
		Selector:    domain.RecipientSelector{UseAll: true},
		BaseURL:     "https://phish.example",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "template", ve.Field)

	list, err := h.store.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLaunch_UseAllSkipsUnassigned(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.department(t, "Finance", "a@x.com")
	h.department(t, "HR", "b@x.com")
	require.NoError(t, h.store.CreateRecipient(ctx, &domain.Recipient{Email: "loner@x.com"}))

	res, err := h.svc.Launch(ctx, campaign.LaunchRequest{
		TemplateKey: "security_alert",
		Selector:    domain.RecipientSelector{UseAll: true},
		BaseURL:     "https://phish.example",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SentCount)
	for _, m := range h.sender.sent {
		assert.NotEqual(t, "loner@x.com", m.To)
	}
}

func TestLaunch_DuplicateDepartmentsSendOnce(t *testing.T) {
	h := newHarness(t)
	finance := h.department(t, "Finance", "a@x.com", "c@x.com")

	res, err := h.svc.Launch(context.Background(), campaign.LaunchRequest{
		TemplateKey: "invoice_overdue",
		Selector:    domain.RecipientSelector{DepartmentIDs: []int64{finance.ID, finance.ID}},
		BaseURL:     "https://phish.example",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.SentCount)
	assert.Len(t, h.sender.sent, 2)
}

func TestLaunch_TransportFailureAbortsLoop(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.department(t, "Finance", "a@x.com", "b@x.com", "c@x.com")
	h.sender.failFor["b@x.com"] = true

	res, err := h.svc.Launch(ctx, campaign.LaunchRequest{
		TemplateKey: "payroll_update",
		Selector:    domain.RecipientSelector{UseAll: true},
		BaseURL:     "https://phish.example",
	})
	var te *domain.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "b@x.com", te.Recipient)
	assert.Equal(t, 1, te.Sent)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.SentCount)
	assert.Equal(t, 3, res.Recipients)

	sum, err := h.store.Summarize(ctx, &res.CampaignID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Delivered, "c@x.com was never attempted")
	assert.Equal(t, 1, h.counters.failed)
}

func TestLaunch_SequentialDeliveredNotBelowClicked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.department(t, "Finance", "a@x.com", "b@x.com")

	res, err := h.svc.Launch(ctx, campaign.LaunchRequest{
		TemplateKey: "package_delivery",
		Selector:    domain.RecipientSelector{UseAll: true},
		BaseURL:     "https://phish.example",
	})
	require.NoError(t, err)

	recipients, err := h.store.ListAssignedRecipients(ctx)
	require.NoError(t, err)
	for _, r := range recipients {
		for i := 0; i < 3; i++ {
			_, err := h.recorder.RecordType(ctx, res.CampaignID, r.ID, domain.EventClicked, "10.0.0.1")
			require.NoError(t, err)
		}
	}

	sum, err := h.store.Summarize(ctx, &res.CampaignID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, sum.Delivered, sum.Clicked)
	assert.Equal(t, 2, sum.Clicked)
}

func TestLaunch_MissingBaseURL(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Launch(context.Background(), campaign.LaunchRequest{
		TemplateKey: "password_reset",
		Selector:    domain.RecipientSelector{UseAll: true},
	})
	assert.True(t, domain.IsValidation(err))
}

func TestSendTest_WritesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.svc.SendTest(ctx, "me@x.com", "security_alert"))
	require.Len(t, h.sender.sent, 1)
	assert.True(t, strings.HasPrefix(h.sender.sent[0].Subject, "[TEST] "))
	assert.Equal(t, "#", h.renderer.data[0].ClickURL)

	list, err := h.store.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.True(t, domain.IsValidation(h.svc.SendTest(ctx, " ", "security_alert")))
}

func TestCosmetics_Ranges(t *testing.T) {
	c := campaign.NewCosmetics(rand.NewPCG(42, 7), func() time.Time {
		return time.Date(2024, 2, 29, 13, 14, 15, 0, time.FixedZone("X", 3600))
	})
	for i := 0; i < 200; i++ {
		f := c.Draw()
		ip := net.ParseIP(f.SenderIP).To4()
		require.NotNil(t, ip, f.SenderIP)
		for _, octet := range ip {
			assert.GreaterOrEqual(t, int(octet), 10)
			assert.LessOrEqual(t, int(octet), 250)
		}
		assert.Contains(t, []string{"Russia", "Canada", "USA", "Mexico", "India", "China"}, f.Country)
		assert.Contains(t, []string{"Windows 10", "Windows 11", "macOS 12"}, f.Platform)
		assert.Contains(t, []string{"Chrome", "Firefox", "Edge"}, f.Browser)
		assert.Equal(t, "Thu, 29 Feb 2024 12:14:15 +0000", f.Date)
	}
}

func TestDeleteCampaigns(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.department(t, "Finance", "a@x.com")

	_, err := h.svc.DeleteCampaigns(ctx, nil, false)
	assert.True(t, domain.IsValidation(err))

	var ids []int64
	for i := 0; i < 3; i++ {
		res, err := h.svc.Launch(ctx, campaign.LaunchRequest{
			TemplateKey: "password_reset",
			Selector:    domain.RecipientSelector{UseAll: true},
			BaseURL:     "https://phish.example",
		})
		require.NoError(t, err)
		ids = append(ids, res.CampaignID)
	}

	n, err := h.svc.DeleteCampaigns(ctx, []int64{ids[0], ids[0]}, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = h.svc.DeleteCampaigns(ctx, nil, true)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	sum, err := h.store.Summarize(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, sum.Delivered)
}

func TestParseSelection(t *testing.T) {
	ids, all, err := campaign.ParseSelection([]string{"3", " 1 ", ""})
	require.NoError(t, err)
	assert.False(t, all)
	assert.Equal(t, []int64{3, 1}, ids)

	_, all, err = campaign.ParseSelection([]string{"3", "ALL"})
	require.NoError(t, err)
	assert.True(t, all)

	_, _, err = campaign.ParseSelection([]string{"abc"})
	assert.True(t, domain.IsValidation(err))
}

func recipientID(t *testing.T, h *harness, email string) int64 {
	t.Helper()
	list, err := h.store.ListRecipients(context.Background())
	require.NoError(t, err)
	for _, r := range list {
		if r.Email == email {
			return r.ID
		}
	}
	t.Fatalf("recipient %s not found", email)
	return 0
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
